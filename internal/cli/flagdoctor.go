package cli

// validateFlags centralizes flag combinations shared by the session commands.
func validateFlags(globals *Globals, experiment, subject string) error {
	if experiment != "" && subject != "" {
		return outputErrorCommon(globals, "INVALID_FLAGS", "--experiment cannot be combined with --subject", "query one axis at a time")
	}
	if experiment == "" && subject == "" {
		return outputErrorCommon(globals, "INVALID_FLAGS", "one of --experiment or --subject is required", "pass --experiment TITLE or --subject NAME")
	}
	if globals != nil && globals.APIBase == "" {
		return outputErrorCommon(globals, "INVALID_FLAGS", "no API base URL configured", "pass --api-base or set PCX_API_BASE")
	}
	return nil
}
