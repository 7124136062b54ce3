package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lifestory/internal/bootstrap"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
	"lifestory/internal/usecase/pipeline"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Record interview sessions",
}

var interviewSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Store a session transcript, typed or transcribed from audio",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *pipeline.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		customerID, _ := cmd.Flags().GetString("customer")
		session, _ := cmd.Flags().GetInt("session")
		text, err := resolveText(cmd)
		if err != nil {
			return err
		}
		audioPath, _ := cmd.Flags().GetString("audio")
		if text != "" && audioPath != "" {
			return errors.New("text and audio are mutually exclusive")
		}

		input := pipeline.SubmitTranscriptInput{
			CustomerID:    customerID,
			SessionNumber: session,
			Text:          text,
			AudioFileURL:  optionalString(cmd, "audio-url"),
		}
		if audioPath != "" {
			f, err := os.Open(audioPath)
			if err != nil {
				return errs.Wrapf(err, "open audio file %q", audioPath)
			}
			defer f.Close()
			input.Audio = &ports.AudioInput{
				Filename:    filepath.Base(audioPath),
				ContentType: mime.TypeByExtension(filepath.Ext(audioPath)),
				Data:        f,
			}
		}

		interview, err := svc.SubmitTranscript(ctx, input)
		if err != nil {
			logging.Error(ctx, "submit transcript failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "submit transcript")
		}

		chars := 0
		if interview.Transcription != nil {
			chars = len([]rune(*interview.Transcription))
		}
		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"stored interview: %s session=%d status=%s chars=%d\n",
			interview.ID, interview.SessionNumber, interview.Status, chars,
		); err != nil {
			return errs.Wrap(err, "write submit output")
		}
		return nil
	}),
}

// resolveText reads --text or --text-file; both empty is allowed so audio can be used.
func resolveText(cmd *cobra.Command) (string, error) {
	inline, _ := cmd.Flags().GetString("text")
	textFile, _ := cmd.Flags().GetString("text-file")

	if strings.TrimSpace(inline) != "" && strings.TrimSpace(textFile) != "" {
		return "", errors.New("text and text-file are mutually exclusive")
	}
	if strings.TrimSpace(textFile) != "" {
		raw, err := os.ReadFile(textFile)
		if err != nil {
			return "", errs.Wrapf(err, "read text file %q", textFile)
		}
		inline = string(raw)
	}
	return strings.TrimSpace(inline), nil
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.AddCommand(interviewSubmitCmd)

	interviewSubmitCmd.Flags().String("customer", "", "Customer ID")
	interviewSubmitCmd.Flags().Int("session", 0, "Interview session number")
	interviewSubmitCmd.Flags().String("text", "", "Transcript text")
	interviewSubmitCmd.Flags().String("text-file", "", "Path to a transcript text file")
	interviewSubmitCmd.Flags().String("audio", "", "Path to an audio recording to transcribe")
	interviewSubmitCmd.Flags().String("audio-url", "", "Where the original recording is archived")
	_ = interviewSubmitCmd.MarkFlagRequired("customer")
	_ = interviewSubmitCmd.MarkFlagRequired("session")
}
