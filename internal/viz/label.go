package viz

import (
	"fmt"

	"github.com/san-kum/statefield/internal/mapping"
)

// EquationLabel renders the field equation with the record substituted in.
// It is display only; nothing solves it.
func EquationLabel(r mapping.Record) string {
	return fmt.Sprintf("i ∂ψ/∂t (t,z) = - %.3f ∇ᵗ_z ∇_z ψ(t,z) + (%.3f / |z|²) ψ(t,z) + %.3f ψ(t,z)",
		r.D, r.Lambda, r.Mu)
}

// Feedback is the one-line summary under the board. The jitter policy's
// tension is its chaos level and is labelled as such.
func Feedback(r mapping.Record) string {
	tension := fmt.Sprintf("Tension: %d%%", r.TensionPercent)
	if r.Policy == "jitter" {
		tension = fmt.Sprintf("Chaos: %.1f%%", r.Tension*100)
	}
	return fmt.Sprintf("Coherence: %d%% | %s | D = %.3f | λ = %.3f | μ = %.3f",
		r.CoherencePercent, tension, r.D, r.Lambda, r.Mu)
}
