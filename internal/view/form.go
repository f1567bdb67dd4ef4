package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"clipdeck/internal/model"
	"clipdeck/internal/store"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotEditing      = errors.New("no template selected for editing")
)

// FieldError reports a required form field left blank.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return e.Field + " is required" }

type FormMode int

const (
	FormCreate FormMode = iota
	FormEditing
)

func (m FormMode) String() string {
	if m == FormEditing {
		return "edit"
	}
	return "new"
}

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// FormInput is the raw content of the edit form. Tags is a comma separated
// list as typed by the user.
type FormInput struct {
	Name     string `validate:"required"`
	Text     string `validate:"required"`
	Category string `validate:"required"`
	Tags     string
}

// Form is the edit-form state machine. In create mode a commit creates a
// template; after Load it edits that template until Commit, Cancel or Delete
// returns it to create mode.
type Form struct {
	Input FormInput

	repo     Repository
	log      *zap.Logger
	validate *validator.Validate

	mode            FormMode
	editingID       int64
	defaultCategory string
}

func NewForm(repo Repository, log *zap.Logger) *Form {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Form{
		repo:     repo,
		log:      log,
		validate: validator.New(),
	}
	f.Reset("")
	return f
}

func (f *Form) Mode() FormMode   { return f.mode }
func (f *Form) EditingID() int64 { return f.editingID }

// Reset returns to create mode with empty fields. category pre-fills the
// category field; "" means Unassigned.
func (f *Form) Reset(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = model.UnassignedCategory
	}
	f.defaultCategory = category
	f.mode = FormCreate
	f.editingID = 0
	f.Input = FormInput{Category: category}
}

// Cancel discards the form content without touching storage.
func (f *Form) Cancel() {
	f.Reset(f.defaultCategory)
}

// Load enters edit mode for t, filling the form from the stored record.
func (f *Form) Load(ctx context.Context, t model.Template) error {
	cats, err := f.repo.Categories(ctx)
	if err != nil {
		return err
	}
	category := model.UnassignedCategory
	for _, c := range cats {
		if c.ID == t.CategoryID {
			category = c.Name
			break
		}
	}
	tags, err := f.repo.ListTags(ctx, t.ID)
	if err != nil {
		return err
	}
	f.mode = FormEditing
	f.editingID = t.ID
	f.Input = FormInput{
		Name:     t.Name,
		Text:     t.Text,
		Category: category,
		Tags:     strings.Join(tags, ", "),
	}
	return nil
}

func (f *Form) check(ctx context.Context) (FormInput, error) {
	in := FormInput{
		Name:     strings.TrimSpace(f.Input.Name),
		Text:     strings.TrimSpace(f.Input.Text),
		Category: model.NormalizeName(f.Input.Category),
		Tags:     f.Input.Tags,
	}
	if err := f.validate.Struct(&in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return in, &FieldError{Field: strings.ToLower(verrs[0].Field())}
		}
		return in, err
	}
	cats, err := f.repo.ListCategories(ctx)
	if err != nil {
		return in, err
	}
	for _, c := range cats {
		if c == in.Category {
			return in, nil
		}
	}
	return in, fmt.Errorf("%w: %q", ErrUnknownCategory, in.Category)
}

// Commit validates the form and writes it back. On a validation error the
// form keeps its content and mode. It returns the id of the written template.
func (f *Form) Commit(ctx context.Context) (int64, error) {
	in, err := f.check(ctx)
	if err != nil {
		return 0, err
	}
	tags := model.SplitList(in.Tags)

	var id int64
	switch f.mode {
	case FormEditing:
		id = f.editingID
		err = f.repo.UpdateTemplate(ctx, id, store.UpdateTemplateParams{
			Name:     &in.Name,
			Text:     &in.Text,
			Category: &in.Category,
			Tags:     &tags,
		})
		if err != nil {
			return 0, err
		}
		f.log.Info("template updated", zap.Int64("id", id))
	default:
		id, err = f.repo.CreateTemplate(ctx, store.CreateTemplateParams{
			Name:     in.Name,
			Text:     in.Text,
			Category: in.Category,
			Tags:     tags,
		})
		if err != nil {
			return 0, err
		}
		f.log.Info("template created", zap.Int64("id", id), zap.String("category", in.Category))
	}
	f.Reset(f.defaultCategory)
	return id, nil
}

// Delete removes the template being edited once c confirms. It reports
// whether anything was deleted.
func (f *Form) Delete(ctx context.Context, c Confirmer) (bool, error) {
	if f.mode != FormEditing {
		return false, ErrNotEditing
	}
	if c == nil || !c.Confirm(fmt.Sprintf("Delete template %q?", f.Input.Name)) {
		return false, nil
	}
	id := f.editingID
	if err := f.repo.DeleteTemplate(ctx, id); err != nil {
		return false, err
	}
	f.log.Info("template deleted", zap.Int64("id", id))
	f.Reset(f.defaultCategory)
	return true, nil
}
