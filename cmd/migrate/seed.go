package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/jewelcraft-backend/pkg/db/models"
	"github.com/angelmondragon/jewelcraft-backend/pkg/enums"
)

const defaultSeedFile = "cmd/migrate/seeds/attributes.json"

type attributeSeed struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type attributeUpserter interface {
	Upsert(ctx context.Context, values ...models.AttributeValue) error
}

func loadAttributeSeeds(path string) ([]models.AttributeValue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seeds []attributeSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	values := make([]models.AttributeValue, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for i, seed := range seeds {
		id := strings.TrimSpace(seed.ID)
		if id == "" {
			return nil, fmt.Errorf("seed %d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("seed %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		kind, err := enums.ParseAttributeKind(seed.Kind)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		code := strings.TrimSpace(seed.Code)
		if code == "" {
			code = id
		}
		values = append(values, models.AttributeValue{
			ID:       id,
			Kind:     kind,
			Code:     code,
			Name:     strings.TrimSpace(seed.Name),
			Position: seed.Position,
		})
	}
	return values, nil
}

func seedAttributes(ctx context.Context, store attributeUpserter, path string) (int, error) {
	values, err := loadAttributeSeeds(path)
	if err != nil {
		return 0, err
	}
	if err := store.Upsert(ctx, values...); err != nil {
		return 0, fmt.Errorf("upsert attribute values: %w", err)
	}
	return len(values), nil
}
