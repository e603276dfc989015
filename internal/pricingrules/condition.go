package pricingrules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

// ConditionState is a condition as edited in the rule builder. Type and Value may be null
// while the row is still a draft.
type ConditionState struct {
	ID    string          `json:"id,omitempty"`
	Type  *string         `json:"type"`
	Value json.RawMessage `json:"value"`
}

// IsComplete reports whether both type and value are present.
func (c ConditionState) IsComplete() bool {
	if c.Type == nil || strings.TrimSpace(*c.Type) == "" {
		return false
	}
	v := bytes.TrimSpace(c.Value)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}

// CompleteConditions drops draft rows so they never take part in matching.
func CompleteConditions(states []ConditionState) []ConditionState {
	out := make([]ConditionState, 0, len(states))
	for _, s := range states {
		if s.IsComplete() {
			out = append(out, s)
		}
	}
	return out
}

// Condition is one typed rule predicate. The set of implementations is closed.
type Condition interface {
	Type() enums.ConditionType
	Matches(product ProductFacts, variant models.VariantMetadata) bool
	sealed()
}

// SetCondition compares a product-level ID set using ANY or ALL semantics.
type SetCondition struct {
	Kind      enums.ConditionType
	MatchType enums.MatchType
	IDs       []string
}

// AttributeCondition matches when the variant's attribute ID is one of IDs.
type AttributeCondition struct {
	Kind enums.ConditionType
	IDs  []string
}

// RangeCondition bounds a numeric aggregate to the closed interval [From, To].
type RangeCondition struct {
	Kind enums.ConditionType
	From decimal.Decimal
	To   decimal.Decimal
}

// UnknownCondition stands in for anything that could not be decoded. It never matches.
type UnknownCondition struct {
	RawType string
	Reason  string
}

func (c SetCondition) Type() enums.ConditionType       { return c.Kind }
func (c AttributeCondition) Type() enums.ConditionType { return c.Kind }
func (c RangeCondition) Type() enums.ConditionType     { return c.Kind }
func (c UnknownCondition) Type() enums.ConditionType   { return enums.ConditionType(c.RawType) }

func (SetCondition) sealed()       {}
func (AttributeCondition) sealed() {}
func (RangeCondition) sealed()     {}
func (UnknownCondition) sealed()   {}

type setValue struct {
	MatchType string   `json:"match_type"`
	IDs       []string `json:"ids"`
}

type idsValue struct {
	IDs []string `json:"ids"`
}

type rangeValue struct {
	From *decimal.Decimal `json:"from"`
	To   *decimal.Decimal `json:"to"`
}

// DecodeCondition turns a complete condition state into its typed form and validates the
// value invariants for that type.
func DecodeCondition(state ConditionState) (Condition, error) {
	if !state.IsComplete() {
		return nil, fmt.Errorf("condition is incomplete")
	}
	kind, err := enums.ParseConditionType(strings.TrimSpace(*state.Type))
	if err != nil {
		return nil, err
	}

	switch {
	case kind.IsSet():
		var v setValue
		if err := json.Unmarshal(state.Value, &v); err != nil {
			return nil, fmt.Errorf("%s: decode value: %w", kind, err)
		}
		matchType, err := enums.ParseMatchType(v.MatchType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		ids := uniqueIDs(v.IDs)
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s: at least one id is required", kind)
		}
		return SetCondition{Kind: kind, MatchType: matchType, IDs: ids}, nil

	case kind.IsAttribute():
		var v idsValue
		if err := json.Unmarshal(state.Value, &v); err != nil {
			return nil, fmt.Errorf("%s: decode value: %w", kind, err)
		}
		ids := uniqueIDs(v.IDs)
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s: at least one id is required", kind)
		}
		return AttributeCondition{Kind: kind, IDs: ids}, nil

	case kind.IsRange():
		var v rangeValue
		if err := json.Unmarshal(state.Value, &v); err != nil {
			return nil, fmt.Errorf("%s: decode value: %w", kind, err)
		}
		if v.From == nil || v.To == nil {
			return nil, fmt.Errorf("%s: from and to are required", kind)
		}
		cond := RangeCondition{Kind: kind, From: *v.From, To: *v.To}
		if err := cond.validate(); err != nil {
			return nil, err
		}
		return cond, nil
	}
	return nil, fmt.Errorf("unsupported condition type %q", kind)
}

func (c RangeCondition) validate() error {
	var err error
	if c.From.IsNegative() {
		err = multierr.Append(err, fmt.Errorf("%s: from must be >= 0", c.Kind))
	}
	if !c.To.IsPositive() {
		err = multierr.Append(err, fmt.Errorf("%s: to must be > 0", c.Kind))
	}
	if !c.From.LessThan(c.To) {
		err = multierr.Append(err, fmt.Errorf("%s: from must be less than to", c.Kind))
	}
	return err
}

// DecodeConditions decodes every complete state, aggregating all failures. Draft rows are skipped.
func DecodeConditions(states []ConditionState) ([]Condition, error) {
	var errs error
	out := make([]Condition, 0, len(states))
	for i, state := range CompleteConditions(states) {
		cond, err := DecodeCondition(state)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("conditions[%d]: %w", i, err))
			continue
		}
		out = append(out, cond)
	}
	return out, errs
}

// CompileConditions is the lenient form used for matching: draft rows are dropped and
// malformed rows become UnknownCondition so the rule fails closed.
func CompileConditions(states []ConditionState) []Condition {
	complete := CompleteConditions(states)
	out := make([]Condition, 0, len(complete))
	for _, state := range complete {
		cond, err := DecodeCondition(state)
		if err != nil {
			out = append(out, UnknownCondition{RawType: strings.TrimSpace(*state.Type), Reason: err.Error()})
			continue
		}
		out = append(out, cond)
	}
	return out
}

// EncodeCondition renders a typed condition back to its wire form.
func EncodeCondition(c Condition) (ConditionState, error) {
	var value any
	switch cond := c.(type) {
	case SetCondition:
		value = setValue{MatchType: string(cond.MatchType), IDs: cond.IDs}
	case AttributeCondition:
		value = idsValue{IDs: cond.IDs}
	case RangeCondition:
		value = rangeValue{From: &cond.From, To: &cond.To}
	default:
		return ConditionState{}, fmt.Errorf("cannot encode condition of type %q", c.Type())
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ConditionState{}, err
	}
	kind := string(c.Type())
	return ConditionState{Type: &kind, Value: raw}, nil
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
