package fflag

import (
	"context"
	stdlog "log"
	"time"

	"github.com/rs/zerolog/log"
	ffclient "github.com/thomaspoignant/go-feature-flag"
	"github.com/thomaspoignant/go-feature-flag/ffcontext"
	"github.com/thomaspoignant/go-feature-flag/retriever/fileretriever"
)

// FFlag evaluates boolean feature flags from a local flags file. Without a
// file every flag takes its default value.
type FFlag struct {
	client *ffclient.GoFeatureFlag
}

// NewFFlag loads flags from flagsFilePath, polling it for changes. An empty
// path yields an FFlag that only serves defaults.
func NewFFlag(flagsFilePath string) (*FFlag, error) {
	if flagsFilePath == "" {
		return &FFlag{}, nil
	}
	client, err := ffclient.New(ffclient.Config{
		PollingInterval: 60 * time.Second,
		Logger:          stdlog.New(log.Logger, "", 0),
		Context:         context.Background(),
		Retriever: &fileretriever.Retriever{
			Path: flagsFilePath,
		},
	})
	if err != nil {
		return nil, err
	}
	return &FFlag{client: client}, nil
}

// IsEnabled evaluates flagName for the given evaluation key, typically an
// analysis id. Evaluation errors, including unknown flags, fall back to the
// flag's default.
func (f *FFlag) IsEnabled(flagName, key string) bool {
	defaultValue := Default(flagName)
	if f == nil || f.client == nil {
		return defaultValue
	}
	if key == "" {
		key = "anonymous"
	}
	value, err := f.client.BoolVariation(flagName, ffcontext.NewEvaluationContext(key), defaultValue)
	if err != nil {
		log.Debug().Err(err).Str("flag", flagName).Bool("default", defaultValue).Msg("Feature flag evaluation failed; using default")
		return defaultValue
	}
	return value
}

func (f *FFlag) Close() {
	if f != nil && f.client != nil {
		f.client.Close()
	}
}
