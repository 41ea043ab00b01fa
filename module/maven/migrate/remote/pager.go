package remote

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/harness/nexus-migrate/module/maven/migrate/types"
)

// Done is returned by Pager.Next once the listing is exhausted.
var Done = errors.New("no more pages")

// Pager walks a component listing one page at a time. The first call always
// hits the server; the listing ends after a page with an empty
// continuation token. A Pager cannot be restarted.
type Pager struct {
	repo  *Repository
	token string
	done  bool
}

// Next fetches the following page.
func (p *Pager) Next(ctx context.Context) (*Page, error) {
	if p.done {
		return nil, Done
	}
	raw, err := p.repo.remote.adapter.ListComponents(ctx, p.repo.info.Name, p.token)
	if err != nil {
		return nil, err
	}
	p.token = raw.ContinuationToken
	if p.token == "" {
		p.done = true
	}
	return &Page{repo: p.repo, records: raw.Items, token: raw.ContinuationToken}, nil
}

// All yields every remaining page. Iteration stops after the first error.
func (p *Pager) All(ctx context.Context) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		for {
			page, err := p.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if !yield(page, err) || err != nil {
				return
			}
		}
	}
}

// Components yields every remaining component across pages.
func (p *Pager) Components(ctx context.Context) iter.Seq2[*Component, error] {
	return func(yield func(*Component, error) bool) {
		for page, err := range p.All(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			for _, c := range page.Components() {
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}

// Page is one fetched page of components.
type Page struct {
	repo    *Repository
	records []types.ComponentRecord
	token   string

	once       sync.Once
	components []*Component
}

// Components wraps the raw records on first access.
func (p *Page) Components() []*Component {
	p.once.Do(func() {
		p.components = make([]*Component, 0, len(p.records))
		for _, rec := range p.records {
			p.components = append(p.components, &Component{repo: p.repo, Summary: rec})
		}
	})
	return p.components
}

func (p *Page) Len() int {
	return len(p.records)
}

func (p *Page) Token() string {
	return p.token
}
