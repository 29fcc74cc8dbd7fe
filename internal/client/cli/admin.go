package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aceinapril/aceinapril/internal/client/guard"
	"github.com/aceinapril/aceinapril/internal/client/models"
	"github.com/aceinapril/aceinapril/internal/client/recordstore"
)

// Users lists all accounts. Admin only.
func (a *App) Users(ctx context.Context) error {
	return a.dispatch(ctx, guard.RouteAdmin, a.renderUsers)
}

func (a *App) renderUsers(ctx context.Context) error {
	users, err := a.records.ListUsers(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Could not fetch users:", err)
		return err
	}

	for _, u := range users {
		fmt.Fprintf(a.out, "%-20s %-6s %-8s %s\n", u.Username, u.Role, u.Category, u.ID)
	}
	fmt.Fprintf(a.out, "%d user(s)\n", len(users))
	return nil
}

// AddUser creates a new account. The password is hashed before it leaves the
// client; the record store never sees plaintext credentials.
func (a *App) AddUser(ctx context.Context) error {
	return a.dispatch(ctx, guard.RouteAdmin, a.renderAddUser)
}

func (a *App) renderAddUser(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "New username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	role, err := getSimpleText(a.reader, "Role (user/admin)", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (dsa/project)", a.out)
	if err != nil {
		return err
	}

	input := models.NewUserInput{
		Username: username,
		Password: string(password),
		Role:     models.Role(role),
		Category: models.Category(category),
	}
	if err := a.validate.Struct(input); err != nil {
		fmt.Fprintln(a.out, "Cannot create user:", err)
		return err
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	created, err := a.records.CreateUser(ctx, recordstore.NewUserRecord{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		Category:     input.Category,
	})
	if err != nil {
		fmt.Fprintln(a.out, "Could not create user:", err)
		return err
	}

	fmt.Fprintf(a.out, "Created %s (%s, %s).\n", created.Username, created.Role, created.Category)
	return nil
}

// PostQuestion publishes a daily question for a category. Admin only.
func (a *App) PostQuestion(ctx context.Context) error {
	return a.dispatch(ctx, guard.RouteAdmin, a.renderPostQuestion)
}

func (a *App) renderPostQuestion(ctx context.Context) error {
	date, err := getSimpleText(a.reader, "Question date YYYY-MM-DD (leave empty for today)", a.out)
	if err != nil {
		return err
	}
	if date == "" {
		date = nowFn().Format(models.DateLayout)
	}

	text, err := GetMultiline(a.reader, "Question text", a.out)
	if err != nil {
		return err
	}

	category, err := getSimpleText(a.reader, "Category (dsa/project)", a.out)
	if err != nil {
		return err
	}

	input := models.NewQuestionInput{
		Date:     date,
		Text:     text,
		Category: models.Category(category),
	}
	if err := a.validate.Struct(input); err != nil {
		fmt.Fprintln(a.out, "Cannot post question:", err)
		return err
	}

	question := models.Question{
		ID:       uuid.NewString(),
		Date:     input.Date,
		Text:     input.Text,
		Category: input.Category,
	}

	if _, err := a.records.CreateQuestion(ctx, question); err != nil {
		fmt.Fprintln(a.out, "Could not post question:", err)
		return err
	}

	fmt.Fprintf(a.out, "Posted %s question for %s.\n", question.Category, question.Date)
	return nil
}
