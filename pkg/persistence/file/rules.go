package file

import (
	"context"
	"sort"
	"time"

	"github.com/stayops/stayops/pkg/models"
	"github.com/stayops/stayops/pkg/persistence"
)

const rulesKind = "rules"

// RuleRepository stores workflow rules as JSON documents.
type RuleRepository struct {
	p *Persistence
}

func (r *RuleRepository) All(ctx context.Context) ([]*models.WorkflowRule, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	return r.loadAll()
}

func (r *RuleRepository) loadAll() ([]*models.WorkflowRule, error) {
	ids, err := r.p.ids(rulesKind)
	if err != nil {
		return nil, err
	}

	rules := make([]*models.WorkflowRule, 0, len(ids))

	for _, id := range ids {
		rule := &models.WorkflowRule{}

		err := r.p.read(rulesKind, id, rule, persistence.ErrRuleNotFound)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func (r *RuleRepository) ByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	rule := &models.WorkflowRule{}

	err := r.p.read(rulesKind, id, rule, persistence.ErrRuleNotFound)
	if err != nil {
		return nil, err
	}

	return rule, nil
}

func (r *RuleRepository) ActiveByTrigger(ctx context.Context, trigger models.TriggerType) ([]*models.WorkflowRule, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	all, err := r.loadAll()
	if err != nil {
		return nil, err
	}

	rules := make([]*models.WorkflowRule, 0)

	for _, rule := range all {
		if rule.IsActive && rule.Trigger == trigger {
			rules = append(rules, rule)
		}
	}

	// Priority descending; rule ID ascending breaks ties deterministically.
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}

		return rules[i].ID < rules[j].ID
	})

	return rules, nil
}

func (r *RuleRepository) Save(ctx context.Context, rule *models.WorkflowRule) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	return r.p.write(rulesKind, rule.ID, rule)
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	return r.p.remove(rulesKind, id, persistence.ErrRuleNotFound)
}

// RecordExecution bumps the counter under the repository lock, which stands
// in for the database's atomic increment in this backend.
func (r *RuleRepository) RecordExecution(ctx context.Context, id string, executedAt time.Time) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	rule := &models.WorkflowRule{}

	err := r.p.read(rulesKind, id, rule, persistence.ErrRuleNotFound)
	if err != nil {
		return err
	}

	rule.ExecutionCount++
	rule.LastExecutedAt = &executedAt

	return r.p.write(rulesKind, rule.ID, rule)
}
