package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aceinapril/aceinapril/internal/client/guard"
	"github.com/aceinapril/aceinapril/internal/client/models"
	"github.com/aceinapril/aceinapril/internal/client/recordstore"
)

// Home shows today's question for the user's assigned category.
func (a *App) Home(ctx context.Context) error {
	return a.dispatch(ctx, guard.RouteHome, a.renderHome)
}

func (a *App) renderHome(ctx context.Context) error {
	u := a.auth.CurrentUser()
	if u == nil {
		return nil
	}

	today := nowFn().Format(models.DateLayout)

	q, err := a.records.QuestionForDate(ctx, u.Category, today)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			fmt.Fprintf(a.out, "No %s question has been posted for %s yet.\n", u.Category, today)
			return nil
		}
		fmt.Fprintln(a.out, "Could not fetch today's question:", err)
		return err
	}

	fmt.Fprintf(a.out, "Today's %s question (%s):\n%s\n", q.Category, q.Date, q.Text)
	return nil
}
