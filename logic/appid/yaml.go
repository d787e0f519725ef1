package appid

// MarshalYAML serializes an AppId as its namespaced form alone: the plain ID
// and UUID are both deterministically derivable from it, so persisting them
// separately would only invite drift between the stored fields and what New
// would recompute.
func (a AppId) MarshalYAML() (interface{}, error) {
	return a.namespacedID, nil
}

// UnmarshalYAML reconstructs an AppId from its persisted namespaced form.
func (a *AppId) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var namespacedID string
	if err := unmarshal(&namespacedID); err != nil {
		return err
	}

	id, err := New(namespacedID)
	if err != nil {
		return err
	}
	*a = id
	return nil
}
