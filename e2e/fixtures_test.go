//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MenuOption adjusts a generated test menu
type MenuOption func(*testMenu)

type testMenu struct {
	Restaurant map[string]string `json:"restaurant"`
	Pages      []testPage        `json:"pages"`
}

type testPage struct {
	Title    string        `json:"title"`
	NavLabel string        `json:"navLabel,omitempty"`
	Sections []testSection `json:"sections"`
}

type testSection struct {
	Name  string           `json:"name"`
	Items []map[string]any `json:"items"`
}

// WithPages replaces the default pages with one page per title
func WithPages(titles ...string) MenuOption {
	return func(m *testMenu) {
		m.Pages = m.Pages[:0]
		for i, title := range titles {
			m.Pages = append(m.Pages, testPage{
				Title: title,
				Sections: []testSection{{
					Name:  title + " specials",
					Items: []map[string]any{{"name": fmt.Sprintf("Dish %d", i+1), "price": 100 + i}},
				}},
			})
		}
	}
}

// WithRestaurant sets the restaurant name
func WithRestaurant(name string) MenuOption {
	return func(m *testMenu) {
		m.Restaurant["name"] = name
	}
}

// CreateTestWorkspace creates a temporary directory that becomes $HOME and
// the working directory of the app
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteMenu writes a menu document into the workspace and returns its path
func (tf *TUITestFramework) WriteMenu(name string, options ...MenuOption) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	m := &testMenu{Restaurant: map[string]string{"name": "Test Bistro", "footerNote": "e2e"}}
	WithPages("Starters", "Mains", "Desserts")(m)
	for _, opt := range options {
		opt(m)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write menu: %w", err)
	}
	return path, nil
}
