package cli

// ExperimentsCmd lists every experiment
type ExperimentsCmd struct{}

// Run executes the experiments command
func (c *ExperimentsCmd) Run(globals *Globals) error {
	ctx, cancel := commandContext()
	defer cancel()

	orch, err := globals.orchestrator()
	if err != nil {
		return outputErrorCommon(globals, "INVALID_CONFIG", err.Error())
	}
	exps, err := orch.Experiments(ctx)
	if err != nil {
		return outputFetchError(globals, err)
	}
	globals.Debug("fetched %d experiments", len(exps))
	return globals.writer().Experiments(exps)
}

// SubjectsCmd lists every subject
type SubjectsCmd struct{}

// Run executes the subjects command
func (c *SubjectsCmd) Run(globals *Globals) error {
	ctx, cancel := commandContext()
	defer cancel()

	orch, err := globals.orchestrator()
	if err != nil {
		return outputErrorCommon(globals, "INVALID_CONFIG", err.Error())
	}
	subs, err := orch.Subjects(ctx)
	if err != nil {
		return outputFetchError(globals, err)
	}
	globals.Debug("fetched %d subjects", len(subs))
	return globals.writer().Subjects(subs)
}
