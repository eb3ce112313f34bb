package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Question is one entry of the question bank served to the frontend. The
// guide is the grading rubric later sent back with analyze requests.
type Question struct {
	ID    string `yaml:"id" json:"id"`
	Text  string `yaml:"text" json:"text"`
	Guide string `yaml:"guide" json:"guide,omitempty"`
}

type bankUnit struct {
	ID        string     `yaml:"id"`
	Questions []Question `yaml:"questions"`
}

type bankModule struct {
	ID    string     `yaml:"id"`
	Units []bankUnit `yaml:"units"`
}

type bankFile struct {
	Modules []bankModule `yaml:"modules"`
}

type unitKey struct {
	module string
	unit   string
}

// QuestionBank maps (module, unit) to an ordered list of questions. It is
// loaded once at startup and read-only afterwards, so concurrent request
// handlers may share it without locking.
type QuestionBank struct {
	byUnit  map[unitKey][]Question
	modules []string
}

func LoadQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading question bank: %w", err)
	}

	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing question bank: %w", err)
	}

	bank := &QuestionBank{byUnit: make(map[unitKey][]Question)}
	for _, mod := range file.Modules {
		bank.modules = append(bank.modules, mod.ID)
		for _, unit := range mod.Units {
			key := unitKey{module: mod.ID, unit: unit.ID}
			if _, exists := bank.byUnit[key]; exists {
				return nil, fmt.Errorf("duplicate question bank entry for module %q unit %q", mod.ID, unit.ID)
			}
			bank.byUnit[key] = unit.Questions
		}
	}
	return bank, nil
}

// Questions returns the ordered question list for a module/unit pair.
func (b *QuestionBank) Questions(module, unit string) ([]Question, bool) {
	questions, ok := b.byUnit[unitKey{module: module, unit: unit}]
	return questions, ok
}

// Modules lists the module ids present in the bank, in file order.
func (b *QuestionBank) Modules() []string {
	return b.modules
}
