/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/artwork"
	"github.com/ademuri/ytm-wrapped/internal/logger"
	"github.com/ademuri/ytm-wrapped/internal/render"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

// How long a stored artwork lookup is trusted.
const artworkMaxAge = 30 * 24 * time.Hour

type SendEmailConfig struct {
	DbPath         string
	User           string
	From           string
	To             string
	DryRun         bool
	SendgridAPIKey string
	Artwork        artwork.Options
}

// sendMail delivers m and returns the HTTP status and body from SendGrid.
var sendMail = func(apiKey string, m *mail.SGMailV3) (int, string, error) {
	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.Send(m)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, resp.Body, nil
}

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Emails the yearly report",
	Long: `Builds the report for --year from the imported plays and sends it as an
HTML email through SendGrid.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		analysisCfg, err := analysisConfig()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		config := SendEmailConfig{
			DbPath:         viper.GetString("database"),
			User:           currentUser(),
			From:           viper.GetString("from"),
			To:             args[0],
			DryRun:         viper.GetBool("dryRun"),
			SendgridAPIKey: viper.GetString("sendgrid_api_key"),
			Artwork:        artworkOptions(),
		}
		err = sendEmail(cmd.Context(), config, analysisCfg, newLogger(), os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().String("from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	emailCmd.Flags().String("sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))
}

func sendEmail(ctx context.Context, config SendEmailConfig, analysisCfg analysis.Config, log *logger.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	report, err := buildStoredReport(db, config.User, analysisCfg)
	if err != nil {
		return err
	}

	subject, body, err := generateEmailContent(ctx, db, config, report, log)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Fprintf(out, "Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}
	if config.SendgridAPIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("ytm-wrapped", config.From)
	to := mail.NewEmail(config.To, config.To)
	plain := fmt.Sprintf("%s: %d songs, %d minutes.", report.Persona(), report.TotalSongs, report.TotalMinutes)
	message := mail.NewSingleEmail(from, subject, to, plain, body)

	status, respBody, err := sendMail(config.SendgridAPIKey, message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if status >= 300 {
		return fmt.Errorf("sendEmail: status %d: %s", status, respBody)
	}
	log.WithField("to", config.To).Info("Sent report email")
	return nil
}

func generateEmailContent(ctx context.Context, db *store.Store, config SendEmailConfig, report *analysis.Report, log *logger.Logger) (string, string, error) {
	subject := fmt.Sprintf("Your %d YouTube Music Wrapped", report.Year)

	image := ""
	if len(report.TopArtists) > 0 {
		image = topArtistImage(ctx, db, config.Artwork, report.TopArtists[0].Name, log)
	}

	var body bytes.Buffer
	if err := render.WriteHTML(&body, report, image); err != nil {
		return "", "", err
	}
	return subject, body.String(), nil
}

// topArtistImage looks up artist's picture. Lookup failures only cost the
// picture.
func topArtistImage(ctx context.Context, db *store.Store, opts artwork.Options, artist string, log *logger.Logger) string {
	provider, err := artwork.NewProvider(opts)
	if err != nil {
		log.WithError(err).Warn("Artwork disabled")
		return ""
	}
	if provider == nil {
		return ""
	}

	url, err := artwork.NewPersisted(provider, db, artworkMaxAge).ArtistImage(ctx, artist)
	if err != nil {
		log.WithError(err).WithField("artist", artist).Warn("Artwork lookup failed")
		return artwork.FallbackImage
	}
	if url == "" {
		return artwork.FallbackImage
	}
	return url
}
