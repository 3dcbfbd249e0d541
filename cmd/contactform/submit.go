package main

import (
	"context"
	"errors"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/moura-ar/portfolio/internal/api/validation"
	"github.com/moura-ar/portfolio/internal/formclient"
	"github.com/moura-ar/portfolio/internal/version"

	"github.com/spf13/cobra"
)

var submitForm formFlags

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Fill in and send the contact form",
	Long: `Fill in and send the contact form the way the page does: every field is
focused, typed and blurred, project types are checked one by one and the form
is submitted once.

Example:
  contactform submit --name "Juan Pérez" --email juan@example.com \
    -m "Necesito un sitio web para mi estudio" -p website -p ui-ux \
    --utm utm_source=newsletter`,
	Run: func(cmd *cobra.Command, args []string) {
		endpoint, _ := cmd.Flags().GetString("endpoint")
		origin, _ := cmd.Flags().GetString("origin")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		utm, _ := cmd.Flags().GetStringToString("utm")
		referrer, _ := cmd.Flags().GetString("referrer")

		if unknown := submitForm.unknownProjectTypes(); len(unknown) > 0 {
			warnColor.Printf("Project types not offered on the page: %v\n", unknown)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		userAgent := version.UserAgent()
		view := newTerminalView(os.Stdout)
		tracker := formclient.NewTracker(formclient.TrackerConfig{
			Sink:      analyticsSink(cmd, userAgent),
			Page:      "/contacto",
			UserAgent: userAgent,
			Logger:    logger,
		})

		ctl, err := formclient.NewController(formclient.ControllerConfig{
			Submitter: formclient.NewHTTPSubmitter(formclient.HTTPSubmitterConfig{
				Endpoint:  endpoint,
				Origin:    origin,
				UserAgent: userAgent,
				Timeout:   timeout,
			}),
			Tracker:  tracker,
			View:     view,
			Logger:   logger,
			Referrer: referrer,
		})
		if err != nil {
			logger.Error("Failed to create form controller: %v", err)
			os.Exit(1)
		}
		defer ctl.Unload(context.Background())

		query := url.Values{}
		for k, v := range utm {
			query.Set(k, v)
		}
		ctl.Load(query)

		fill(ctl, formclient.FieldName, submitForm.name)
		fill(ctl, formclient.FieldEmail, submitForm.email)
		fill(ctl, formclient.FieldMessage, submitForm.message)
		for _, tag := range validation.SplitProjectTypes(submitForm.projectTypes) {
			ctl.SetProjectType(tag, true)
		}
		if submitForm.budget != "" {
			fill(ctl, formclient.FieldBudget, submitForm.budget)
		}

		err = ctl.Submit(ctx)
		var fieldErrs validation.FieldErrors
		switch {
		case err == nil:
			return
		case errors.As(err, &fieldErrs):
			for field, msg := range fieldErrs {
				errColor.Printf("✗ %s: %s\n", field, msg)
			}
		default:
			logger.Debug("submission failed: %v", err)
		}
		ctl.Unload(context.Background())
		os.Exit(1)
	},
}

// fill replays a visitor typing value into field.
func fill(ctl *formclient.Controller, field, value string) {
	ctl.Focus(field)
	ctl.Input(field, value)
	ctl.Blur(field, value)
}

func analyticsSink(cmd *cobra.Command, userAgent string) formclient.Sink {
	host, _ := cmd.Flags().GetString("umami-host")
	website, _ := cmd.Flags().GetString("umami-website")
	if host != "" && website != "" {
		return formclient.NewUmamiSink(formclient.UmamiConfig{
			Host:      host,
			WebsiteID: website,
			Hostname:  "moura.ar",
			UserAgent: userAgent,
		})
	}
	return formclient.LogSink{Logger: logger}
}

func init() {
	submitForm.bind(submitCmd)
	submitCmd.Flags().String("endpoint", "https://moura.ar/api/contact", "Contact API URL")
	submitCmd.Flags().String("origin", "https://moura.ar", "Origin header sent with the request")
	submitCmd.Flags().String("referrer", "", "Referrer reported to analytics")
	submitCmd.Flags().Duration("timeout", formclient.DefaultSubmitTimeout, "Give up on the request after this long")
	submitCmd.Flags().StringToString("utm", nil, "UTM parameters as key=value, e.g. utm_source=newsletter")
	submitCmd.Flags().String("umami-host", os.Getenv("UMAMI_HOST"), "Umami base URL for analytics events")
	submitCmd.Flags().String("umami-website", os.Getenv("UMAMI_WEBSITE_ID"), "Umami website ID")
}
