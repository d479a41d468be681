package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed languages.json
var languagesJSON []byte

// Language is a paste language the web app can highlight.
type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Languages is the set of supported paste languages.
type Languages struct {
	list []Language
	ids  map[string]struct{}
}

func LoadLanguages() (*Languages, error) {
	var list []Language
	if err := json.Unmarshal(languagesJSON, &list); err != nil {
		return nil, fmt.Errorf("parse languages: %w", err)
	}

	ids := make(map[string]struct{}, len(list))
	for _, l := range list {
		ids[l.ID] = struct{}{}
	}

	return &Languages{list: list, ids: ids}, nil
}

func (l *Languages) List() []Language {
	return l.list
}

func (l *Languages) Supported(id string) bool {
	_, ok := l.ids[id]
	return ok
}
