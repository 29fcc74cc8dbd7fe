package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aceinapril/aceinapril/internal/client/guard"
	"github.com/aceinapril/aceinapril/internal/client/models"
)

// Submit records an answer to today's question, with an optional file
// attachment uploaded to blob storage first.
func (a *App) Submit(ctx context.Context) error {
	return a.dispatch(ctx, guard.RouteSubmit, a.renderSubmit)
}

func (a *App) renderSubmit(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		return nil
	}

	message, err := GetMultiline(a.reader, "Your answer", a.out)
	if err != nil {
		return err
	}
	if message == "" {
		fmt.Fprintln(a.out, "Nothing to submit.")
		return nil
	}

	attachment, err := getSimpleText(a.reader, "Attachment path (leave empty to skip)", a.out)
	if err != nil {
		return err
	}

	var fileURL string
	if attachment != "" {
		if a.blobs == nil {
			fmt.Fprintln(a.out, "Attachment uploads are not configured, submitting the answer without it.")
		} else {
			fileURL, err = a.blobs.UploadFile(ctx, attachment)
			if err != nil {
				fmt.Fprintln(a.out, "Attachment upload failed:", err)
				return err
			}
		}
	}

	submission := models.Submission{
		ID:      uuid.NewString(),
		UserID:  u.ID,
		Date:    nowFn().Format(models.DateLayout),
		Message: message,
		FileURL: fileURL,
	}
	if err := submission.Validate(); err != nil {
		fmt.Fprintln(a.out, "Submission rejected:", err)
		return err
	}

	if _, err := a.records.CreateSubmission(ctx, submission); err != nil {
		fmt.Fprintln(a.out, "Could not save the submission:", err)
		return err
	}

	fmt.Fprintln(a.out, "Submission saved.")
	return nil
}

// Submissions lists the user's own submission history, newest first.
func (a *App) Submissions(ctx context.Context) error {
	return a.dispatch(ctx, guard.RouteSubmit, a.renderSubmissions)
}

func (a *App) renderSubmissions(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		return nil
	}

	subs, err := a.records.ListSubmissionsByUser(ctx, u.ID)
	if err != nil {
		fmt.Fprintln(a.out, "Could not fetch submissions:", err)
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintln(a.out, "No submissions yet.")
		return nil
	}

	for _, s := range subs {
		fmt.Fprintf(a.out, "%s  %s\n", s.Date, s.Message)
		if s.FileURL != "" {
			fmt.Fprintf(a.out, "          attachment: %s\n", s.FileURL)
		}
	}
	return nil
}
