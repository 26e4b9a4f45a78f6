package equarium

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kvar-ae/equarium/domain"
)

//go:embed seed/equations.yaml
var seedEquations []byte

type seedFile struct {
	Equations []domain.EquationInput `yaml:"equations"`
}

// SeedSet returns the reference equation set embedded in the binary.
func SeedSet() ([]domain.EquationInput, error) {
	var file seedFile
	if err := yaml.Unmarshal(seedEquations, &file); err != nil {
		return nil, fmt.Errorf("unmarshalling seed set : %w", err)
	}
	if len(file.Equations) == 0 {
		return nil, fmt.Errorf("seed set is empty")
	}
	return file.Equations, nil
}

// Seed populates the repository with the reference equation set if and only
// if it currently holds zero equations. It reports whether it performed any
// work, so running it twice in succession leaves the catalog unchanged after
// the first run.
func Seed(repo domain.EquationRepository) (bool, error) {
	count, err := repo.CountEquations()
	if err != nil {
		return false, fmt.Errorf("counting equations before seeding : %w", err)
	}
	if count > 0 {
		return false, nil
	}

	inputs, err := SeedSet()
	if err != nil {
		return false, err
	}

	for _, input := range inputs {
		if _, err := repo.CreateEquation(input); err != nil {
			return false, fmt.Errorf("seeding equation %q : %w", input.Title, err)
		}
	}
	return true, nil
}
