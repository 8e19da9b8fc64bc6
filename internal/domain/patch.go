package domain

import "time"

// SubmissionPatch is a partial update applied to a stored submission.
// Nil fields are left untouched.
type SubmissionPatch struct {
	Status          *ReviewStatus
	TeacherComments *string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	Recommendations []string
	Explanation     *string
	CompletedBy     *string
	CompletedAt     *time.Time
}

// Apply copies the set fields of p onto sub.
func (p SubmissionPatch) Apply(sub *SubmissionResult) {
	if p.Status != nil {
		sub.Status = *p.Status
	}
	if p.TeacherComments != nil {
		sub.TeacherComments = *p.TeacherComments
	}
	if p.ReviewedBy != nil {
		sub.ReviewedBy = *p.ReviewedBy
	}
	if p.ReviewedAt != nil {
		at := *p.ReviewedAt
		sub.ReviewedAt = &at
	}
	if p.Recommendations != nil {
		sub.Recommendations = append([]string(nil), p.Recommendations...)
	}
	if p.Explanation != nil {
		sub.Explanation = *p.Explanation
	}
	if p.CompletedBy != nil {
		sub.CompletedBy = *p.CompletedBy
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		sub.CompletedAt = &at
	}
}

// Fields returns the set fields keyed by their stored document names.
func (p SubmissionPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	if p.TeacherComments != nil {
		fields["teacherComments"] = *p.TeacherComments
	}
	if p.ReviewedBy != nil {
		fields["reviewedBy"] = *p.ReviewedBy
	}
	if p.ReviewedAt != nil {
		fields["reviewedAt"] = *p.ReviewedAt
	}
	if p.Recommendations != nil {
		fields["recommendations"] = p.Recommendations
	}
	if p.Explanation != nil {
		fields["explanation"] = *p.Explanation
	}
	if p.CompletedBy != nil {
		fields["completedBy"] = *p.CompletedBy
	}
	if p.CompletedAt != nil {
		fields["completedAt"] = *p.CompletedAt
	}
	return fields
}
