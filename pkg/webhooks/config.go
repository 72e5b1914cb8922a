package webhooks

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Subscriber struct {
	Name    string   `yaml:"name" json:"name"`
	URL     string   `yaml:"url" json:"url"`
	Secret  string   `yaml:"secret" json:"-"`
	Events  []string `yaml:"events" json:"events"`
	Enabled bool     `yaml:"enabled" json:"enabled"`
}

type SubscribersConfig struct {
	Subscribers []Subscriber `yaml:"subscribers" json:"subscribers"`
}

// Wants reports whether the subscriber is registered for eventType. An empty
// events list means all events.
func (s Subscriber) Wants(eventType string) bool {
	if !s.Enabled {
		return false
	}
	if len(s.Events) == 0 {
		return true
	}
	for _, event := range s.Events {
		if event == eventType {
			return true
		}
	}
	return false
}

func LoadSubscribers(path string) (SubscribersConfig, error) {
	if path == "" {
		return SubscribersConfig{}, nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return SubscribersConfig{}, err
	}

	var cfg SubscribersConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return SubscribersConfig{}, err
	}

	for _, sub := range cfg.Subscribers {
		if sub.Enabled && (sub.URL == "" || sub.Secret == "") {
			return SubscribersConfig{}, errors.New("enabled subscriber missing url or secret")
		}
	}

	return cfg, nil
}
