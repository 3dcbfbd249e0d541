package main

import (
	"os"
	"sort"

	"github.com/moura-ar/portfolio/internal/api/validation"
	"github.com/moura-ar/portfolio/internal/security"

	"github.com/spf13/cobra"
)

var validateForm formFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check form values locally without sending them",
	Long: `Run the API's field rules and spam heuristics against the given values.
Nothing is sent. The exit status is 1 when the API would reject the form and 2
when it would accept it but silently drop it as spam.`,
	Run: func(cmd *cobra.Command, args []string) {
		data, fieldErrs := validation.ValidateContactForm(validateForm.submissionForm())
		if fieldErrs != nil {
			fields := make([]string, 0, len(fieldErrs))
			for field := range fieldErrs {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				errColor.Printf("✗ %s: %s\n", field, fieldErrs[field])
			}
			os.Exit(1)
		}

		if unknown := validateForm.unknownProjectTypes(); len(unknown) > 0 {
			warnColor.Printf("Project types not offered on the page: %v\n", unknown)
		}

		if spam, reason := security.NewSpamDetector().Check(data.Message); spam {
			warnColor.Printf("Message would be discarded as spam (%s)\n", reason)
			os.Exit(2)
		}

		okColor.Println("✓ Form is valid")
		infoColor.Printf("  %s <%s>, %d project type(s)\n", data.Name, data.Email, len(data.ProjectType))
	},
}

func init() {
	validateForm.bind(validateCmd)
}
