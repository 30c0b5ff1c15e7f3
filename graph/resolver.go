package graph

import (
	"context"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/workflow"
)

// Resolver serves the item form sessions of Registry.
type Resolver struct {
	Registry *workflow.SessionRegistry
}

type ResolverRoot interface {
	Mutation() MutationResolver
	Query() QueryResolver
}

type Config struct {
	Resolvers ResolverRoot
}

// FormState is what every form mutation answers with.
type FormState struct {
	SessionId string                   `json:"session_id"`
	Pending   bool                     `json:"pending"`
	Stats     models.RegenerationStats `json:"stats"`
	models.ItemFormView
}

type SubmitResult struct {
	ItemId int        `json:"item_id"`
	Form   *FormState `json:"form"`
}

func formState(p *workflow.ItemFormPipeline) *FormState {
	return &FormState{
		SessionId:    p.Id(),
		Pending:      p.Pending(),
		Stats:        p.LastStats(),
		ItemFormView: p.View(),
	}
}

// mutate runs fn on the session draft and answers with the form state.
func (r *Resolver) mutate(ctx context.Context, sessionId string, event workflow.ChangeEvent, fn func(d *models.ItemDraft) error) (*FormState, error) {
	p, err := r.Registry.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if err := p.Mutate(event, fn); err != nil {
		return nil, err
	}
	return formState(p), nil
}
