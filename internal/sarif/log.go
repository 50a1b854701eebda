package sarif

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrLogParse is returned when a result log cannot be decoded.
var ErrLogParse = errors.New("parse result log")

// Levels and kinds reported by oscal-cli.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelNote    = "note"
	LevelNone    = "none"

	KindPass = "pass"
	KindFail = "fail"
)

// Log is the subset of a SARIF 2.1.0 log that oscal-cli writes.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool      Tool       `json:"tool"`
	Results   []Result   `json:"results,omitempty"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	InformationURI string `json:"informationUri,omitempty"`
	Rules          []Rule `json:"rules,omitempty"`
}

type Rule struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	ShortDescription *Message `json:"shortDescription,omitempty"`
	HelpURI          string   `json:"helpUri,omitempty"`
}

type Artifact struct {
	Location ArtifactLocation `json:"location"`
}

type Result struct {
	RuleID    string     `json:"ruleId,omitempty"`
	RuleIndex *int       `json:"ruleIndex,omitempty"`
	Level     string     `json:"level,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

type Message struct {
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation,omitempty"`
	LogicalLocations []LogicalLocation `json:"logicalLocations,omitempty"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

type ArtifactLocation struct {
	URI   string `json:"uri,omitempty"`
	Index *int   `json:"index,omitempty"`
}

type Region struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

type LogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName,omitempty"`
	DecoratedName      string `json:"decoratedName,omitempty"`
}

// Parse decodes a result log.
func Parse(data []byte) (*Log, error) {
	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogParse, err)
	}
	if log.Version == "" && log.Runs == nil {
		return nil, fmt.Errorf("%w: not a SARIF document", ErrLogParse)
	}
	return &log, nil
}

// Summary counts results across every run of a log.
type Summary struct {
	Total    int `json:"total"`
	Pass     int `json:"pass"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Notes    int `json:"notes"`
}

// Failed reports whether any result is an error.
func (s Summary) Failed() bool {
	return s.Errors > 0
}

// Summarize tallies log results. A result with kind "pass" counts as a pass
// whatever its level; a result with no level counts as a warning, the SARIF
// default.
func Summarize(log *Log) Summary {
	var s Summary
	if log == nil {
		return s
	}
	for _, run := range log.Runs {
		for _, res := range run.Results {
			s.Total++
			if res.Kind == KindPass {
				s.Pass++
				continue
			}
			switch res.Level {
			case LevelError:
				s.Errors++
			case LevelNote, LevelNone:
				s.Notes++
			default:
				s.Warnings++
			}
		}
	}
	return s
}

// Location returns a short "uri:line" for the first physical location of r.
func (r Result) Location() string {
	for _, loc := range r.Locations {
		if loc.PhysicalLocation == nil {
			continue
		}
		uri := loc.PhysicalLocation.ArtifactLocation.URI
		if region := loc.PhysicalLocation.Region; region != nil && region.StartLine > 0 {
			return fmt.Sprintf("%s:%d", uri, region.StartLine)
		}
		return uri
	}
	return ""
}

// Encode renders log as indented JSON.
func Encode(log *Log) ([]byte, error) {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result log: %w", err)
	}
	return append(data, '\n'), nil
}
