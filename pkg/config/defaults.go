// Package config provides configuration handling for toolshop.
package config

import (
	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
	"github.com/marshallshelly/toolshop-fixtures/pkg/sink"
)

// DefaultSeed matches the fixed seed the demo catalog has always been generated with.
const DefaultSeed = 12345

// DefaultOutput returns default file output options.
func DefaultOutput() Output {
	return Output{
		Dir:    ".",
		Format: string(sink.FormatCSV),
	}
}

// DefaultLog returns default logging options.
func DefaultLog() Log {
	return Log{
		Level:      "info",
		Format:     "text",
		TimeFormat: "15:04:05",
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// DefaultStorage returns default object storage options.
func DefaultStorage() Storage {
	return Storage{
		Bucket: "toolshop-fixtures",
		Prefix: "runs",
		UseSSL: true,
	}
}

// DefaultCounts returns the stock demo catalog size.
func DefaultCounts() pipeline.Counts {
	return pipeline.DefaultCounts()
}
