package domain

// GenesisStatus is the status string reported by a completed genesis simulation run.
const GenesisStatus = "SIMULATION_COMPLETE"

// genesisScript is the fixed narrative emitted by the genesis simulation.
// No computation happens server-side; the client paces the reveal of these lines.
var genesisScript = []string{
	"Initializing ontomorphic lattice...",
	"Loading coupling tensor manifolds into resident memory...",
	"Calibrating synergetic flux boundary conditions...",
	"Seeding epistemic drift parameters (epoch 0)...",
	"Propagating genesis field across the noetic substrate...",
	"Resolving recursive sentience integrals...",
	"Stabilizing category-III resonance harmonics...",
	"Convergence reached. Genesis state committed.",
}

// GenesisLogs returns the ordered genesis log lines. The slice is a copy;
// callers may not mutate the script.
func GenesisLogs() []string {
	logs := make([]string, len(genesisScript))
	copy(logs, genesisScript)
	return logs
}
