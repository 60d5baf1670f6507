package engine

import "fmt"

// ModuleContract declares a package's responsibility and the packages it may
// depend on. The graph is validated to be acyclic and closed.
type ModuleContract struct {
	Name           string
	Responsibility string
	Dependencies   []string
}

// ModuleContracts is the declared dependency DAG of the engine core.
var ModuleContracts = map[string]ModuleContract{
	"conventions": {
		Name:           "conventions",
		Responsibility: "Convention configuration defaults and validation.",
	},
	"policy": {
		Name:           "policy",
		Responsibility: "Scope and routing policy enforcement.",
	},
	"timeconv": {
		Name:           "timeconv",
		Responsibility: "Civil time to UTC and UTC to TT routing pipeline.",
		Dependencies:   []string{"conventions", "policy"},
	},
	"astronomy": {
		Name:           "astronomy",
		Responsibility: "VSOP87D series, nutation, obliquity, solar position, root finding, solar-term solving.",
		Dependencies:   []string{"observability"},
	},
	"sexagenary": {
		Name:           "sexagenary",
		Responsibility: "Year, month, day, and hour pillar arithmetic.",
		Dependencies:   []string{"conventions"},
	},
	"integrity": {
		Name:           "integrity",
		Responsibility: "Uncertainty, boundary proximity, and zi-window evaluation.",
	},
	"output": {
		Name:           "output",
		Responsibility: "Deterministic serialization and regression fixtures.",
	},
	"observability": {
		Name:           "observability",
		Responsibility: "OpenTelemetry bootstrap, span helpers, error recording.",
	},
	"log": {
		Name:           "log",
		Responsibility: "Structured logging bridged onto spans.",
		Dependencies:   []string{"observability"},
	},
	"engine": {
		Name:           "engine",
		Responsibility: "Main orchestration of the full pipeline.",
		Dependencies: []string{
			"conventions",
			"policy",
			"timeconv",
			"astronomy",
			"sexagenary",
			"integrity",
			"output",
			"observability",
			"log",
		},
	},
}

func visitForCycleCheck(name string, visiting, visited map[string]bool, contracts map[string]ModuleContract) error {
	if visiting[name] {
		return fmt.Errorf("circular dependency detected at module: %s", name)
	}
	if visited[name] {
		return nil
	}
	contract, ok := contracts[name]
	if !ok {
		return fmt.Errorf("unknown module in dependency graph: %s", name)
	}

	visiting[name] = true
	for _, dep := range contract.Dependencies {
		if err := visitForCycleCheck(dep, visiting, visited, contracts); err != nil {
			return err
		}
	}
	delete(visiting, name)
	visited[name] = true
	return nil
}

// ValidateModuleContracts checks the declared graph: key/name agreement,
// no unknown dependencies, no cycles.
func ValidateModuleContracts(contracts map[string]ModuleContract) error {
	if contracts == nil {
		contracts = ModuleContracts
	}

	for name, contract := range contracts {
		if contract.Name != name {
			return fmt.Errorf("module key/name mismatch: %s != %s", name, contract.Name)
		}
		for _, dep := range contract.Dependencies {
			if _, ok := contracts[dep]; !ok {
				return fmt.Errorf("module %s references unknown dependency: %s", name, dep)
			}
		}
	}

	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	for name := range contracts {
		if err := visitForCycleCheck(name, visiting, visited, contracts); err != nil {
			return err
		}
	}
	return nil
}
