package brain

// Built-in rater names.
const (
	RaterDefault     = "default"
	RaterAdversarial = "adversarial"
)

func init() {
	mustRegisterBuiltin(RaterDefault, func(w Weights) Rater { return Weighted{Weights: w} })
	mustRegisterBuiltin(RaterAdversarial, func(w Weights) Rater {
		return Inverted{Rater: Weighted{Weights: w}, Ceiling: DefaultCeiling}
	})
}

func mustRegisterBuiltin(name string, ctor Factory) {
	if err := Register(name, ctor); err != nil {
		panic(err)
	}
}
