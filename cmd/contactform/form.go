package main

import (
	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"
	"github.com/moura-ar/portfolio/internal/api/validation"

	"github.com/spf13/cobra"
)

// formFlags are the visible form inputs shared by submit and validate.
type formFlags struct {
	name         string
	email        string
	message      string
	projectTypes []string
	budget       string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Your name")
	cmd.Flags().StringVar(&f.email, "email", "", "Reply-to email address")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "Message body (20 to 500 characters)")
	cmd.Flags().StringSliceVarP(&f.projectTypes, "project-type", "p", nil, "Project type, repeatable (website, web-app, ui-ux, backend, ai, mobile, ecommerce, consulting)")
	cmd.Flags().StringVar(&f.budget, "budget", "", "Optional budget")
}

func (f *formFlags) submissionForm() contact.SubmissionForm {
	return contact.SubmissionForm{
		Name:         f.name,
		Email:        f.email,
		Message:      f.message,
		ProjectTypes: f.projectTypes,
		Budget:       f.budget,
	}
}

// unknownProjectTypes lists the selected tags missing from the catalogue.
// The API accepts them, the page never sends them.
func (f *formFlags) unknownProjectTypes() []string {
	var out []string
	for _, tag := range validation.SplitProjectTypes(f.projectTypes) {
		if _, ok := validation.ProjectTypes[tag]; !ok {
			out = append(out, tag)
		}
	}
	return out
}
