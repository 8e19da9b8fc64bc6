package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"quiz-risk-service/internal/assessment"
	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/logger"
)

// NewAssessCmd scores a submission file offline and prints the result.
func NewAssessCmd() *cobra.Command {
	var (
		file       string
		digestOnly bool
	)
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a submission JSON file and print the risk assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runAssess(in, cmd.OutOrStdout(), digestOnly)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "submission JSON file (default stdin)")
	cmd.Flags().BoolVar(&digestOnly, "digest", false, "print only the text digest")
	return cmd
}

func runAssess(in io.Reader, out io.Writer, digestOnly bool) error {
	var sub domain.Submission
	if err := json.NewDecoder(in).Decode(&sub); err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}
	if err := sub.Validate(); err != nil {
		return err
	}

	result, err := assessment.NewAssessor(nil, logger.Nop()).Assess(sub)
	if err != nil {
		return err
	}
	if digestOnly {
		_, err = fmt.Fprintln(out, result.Digest)
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
