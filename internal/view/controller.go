package view

import (
	"context"

	"go.uber.org/zap"

	"clipdeck/internal/model"
	"clipdeck/internal/store"
)

// Repository is the subset of store.Store the view layer needs.
type Repository interface {
	ListCategories(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]model.Category, error)
	FindTemplates(ctx context.Context, f model.TemplateFilter) ([]model.Template, error)
	ListTags(ctx context.Context, templateID int64) ([]string, error)
	TagsByTemplate(ctx context.Context) (map[int64][]string, error)
	CreateTemplate(ctx context.Context, p store.CreateTemplateParams) (int64, error)
	UpdateTemplate(ctx context.Context, id int64, p store.UpdateTemplateParams) error
	DeleteTemplate(ctx context.Context, id int64) error
}

var _ Repository = store.Store{}

// Controller owns the view state and re-queries the repository from scratch
// on every change.
type Controller struct {
	repo  Repository
	log   *zap.Logger
	state State
	plan  RenderPlan
}

func NewController(repo Repository, log *zap.Logger, initial State) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{repo: repo, log: log, state: initial}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Plan() RenderPlan { return c.plan }
func (c *Controller) Repo() Repository { return c.repo }
func (c *Controller) Category() string { return c.plan.Category() }
func (c *Controller) Tabs() []string { return c.plan.Tabs }
func (c *Controller) Rows() []Row { return c.plan.Rows }
func (c *Controller) Mode() SearchMode { return c.state.Mode }
func (c *Controller) Query() string { return c.state.Query }

// Refresh discards the current plan and builds a new one from storage.
func (c *Controller) Refresh(ctx context.Context) (RenderPlan, error) {
	cats, err := c.repo.ListCategories(ctx)
	if err != nil {
		c.log.Warn("refresh: list categories", zap.Error(err))
		return c.plan, err
	}
	tabs := Tabs(cats)
	c.state.Tab = clampTab(c.state.Tab, tabs)

	templates, err := c.repo.FindTemplates(ctx, BuildFilter(c.state, tabs))
	if err != nil {
		c.log.Warn("refresh: find templates", zap.Error(err))
		return c.plan, err
	}
	tags, err := c.repo.TagsByTemplate(ctx)
	if err != nil {
		c.log.Warn("refresh: tags", zap.Error(err))
		return c.plan, err
	}
	c.plan = Plan(c.state, tabs, templates, tags)
	return c.plan, nil
}

func (c *Controller) SetQuery(ctx context.Context, q string) (RenderPlan, error) {
	c.state.Query = q
	return c.Refresh(ctx)
}

func (c *Controller) SetTab(ctx context.Context, tab int) (RenderPlan, error) {
	c.state.Tab = tab
	return c.Refresh(ctx)
}

// ShiftTab moves the tab selection by delta, wrapping at both ends.
func (c *Controller) ShiftTab(ctx context.Context, delta int) (RenderPlan, error) {
	n := len(c.plan.Tabs)
	if n == 0 {
		return c.Refresh(ctx)
	}
	next := ((c.state.Tab+delta)%n + n) % n
	return c.SetTab(ctx, next)
}

func (c *Controller) ToggleMode(ctx context.Context) (RenderPlan, error) {
	if c.state.Mode == SearchTags {
		c.state.Mode = SearchName
	} else {
		c.state.Mode = SearchTags
	}
	return c.Refresh(ctx)
}
