/*
Package metadata parses the YAML documents describing how to grow a tree
from a dataset: the column holding the result, the result values counting
as a success, the answer for branches without data, the type of every
column and how to phrase questions.

A metadata document looks like:

	title: tennis
	result: Play
	success: ["Yes"]
	default: "Unknown"
	question_format: "%s?"
	columns:
	  Humidity: int
*/
package metadata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arborml/id3/table"
)

const (
	// DefaultQuestionFormat is the question format used when a document sets none.
	DefaultQuestionFormat = "%s?"
	// DefaultAnswer is the answer for branches without data when a document sets none.
	DefaultAnswer = "?"
)

// Metadata describes the tree to grow from a dataset.
type Metadata struct {
	Title          string            `yaml:"title"`
	Result         string            `yaml:"result"`
	Success        []string          `yaml:"success"`
	Default        string            `yaml:"default"`
	QuestionFormat string            `yaml:"question_format"`
	Columns        map[string]string `yaml:"columns"`
}

/*
ReadMetadata takes a slice of bytes with a YAML metadata document and
returns the Metadata parsed from it or an error if it cannot be parsed or
is not valid.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	m := &Metadata{}
	if err := yaml.Unmarshal(md, m); err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %w", err)
	}
	if m.QuestionFormat == "" {
		m.QuestionFormat = DefaultQuestionFormat
	}
	if m.Default == "" {
		m.Default = DefaultAnswer
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %w", filepath, err)
	}
	m, err := ReadMetadata(md)
	if err != nil {
		return nil, fmt.Errorf("parsing metadata yml file %s: %w", filepath, err)
	}
	return m, nil
}

// Validate returns an error if the metadata cannot describe a tree.
func (m *Metadata) Validate() error {
	if m.Result == "" {
		return fmt.Errorf("metadata has no result column")
	}
	if strings.Count(m.QuestionFormat, "%s") != 1 {
		return fmt.Errorf("question format %q must contain %%s once", m.QuestionFormat)
	}
	for label, kind := range m.Columns {
		if _, err := table.ParserFor(kind); err != nil {
			return fmt.Errorf("column %q: %w", label, err)
		}
	}
	return nil
}

// Question returns the question asked by nodes splitting on the column with the given label.
func (m *Metadata) Question(label string) string {
	return fmt.Sprintf(m.QuestionFormat, label)
}

// Kind returns the declared type of the column with the given label,
// "string" if none is declared.
func (m *Metadata) Kind(label string) string {
	if k := m.Columns[label]; k != "" {
		return k
	}
	return "string"
}

// ParserFor returns the parser for the cells of the column with the given label.
func (m *Metadata) ParserFor(label string) (table.ColumnParser, error) {
	return table.ParserFor(m.Kind(label))
}
