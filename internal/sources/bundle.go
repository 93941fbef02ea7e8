package sources

import "sort"

// VersionBundle holds one version's install set and rollback set of
// scripts. Both maps are keyed by script name; a name is unique within
// each direction but install and rollback names may overlap (they live
// under separate directories).
type VersionBundle struct {
	VersionName     string
	InstallScripts  map[string]Script
	RollbackScripts map[string]Script
}

// newVersionBundle returns a VersionBundle, defensively copying the
// supplied maps so the bundle is immutable after construction.
func newVersionBundle(name string, install, rollback map[string]Script) VersionBundle {
	return VersionBundle{
		VersionName:     name,
		InstallScripts:  copyScriptMap(install),
		RollbackScripts: copyScriptMap(rollback),
	}
}

func copyScriptMap(m map[string]Script) map[string]Script {
	out := make(map[string]Script, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// InstallScriptNames returns the install script names in ASCII-ascending order.
func (b VersionBundle) InstallScriptNames() []string {
	return sortedNames(b.InstallScripts)
}

// RollbackScriptNames returns the rollback script names in ASCII-ascending order.
func (b VersionBundle) RollbackScriptNames() []string {
	return sortedNames(b.RollbackScripts)
}

// GetInstallScript looks up an install script by name.
func (b VersionBundle) GetInstallScript(name string) (Script, bool) {
	s, ok := b.InstallScripts[name]
	return s, ok
}

// GetRollbackScript looks up a rollback script by name.
func (b VersionBundle) GetRollbackScript(name string) (Script, bool) {
	s, ok := b.RollbackScripts[name]
	return s, ok
}

func sortedNames(m map[string]Script) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// withMappedScripts returns a new VersionBundle with every script's content
// replaced by fn, applied in ASCII-ascending order within each direction.
func (b VersionBundle) withMappedScripts(fn func(direction Direction, name string, content string) string) VersionBundle {
	install := make(map[string]Script, len(b.InstallScripts))
	for _, name := range b.InstallScriptNames() {
		s := b.InstallScripts[name]
		install[name] = s.withContent(fn(Install, name, s.Content))
	}

	rollback := make(map[string]Script, len(b.RollbackScripts))
	for _, name := range b.RollbackScriptNames() {
		s := b.RollbackScripts[name]
		rollback[name] = s.withContent(fn(Rollback, name, s.Content))
	}

	return VersionBundle{
		VersionName:     b.VersionName,
		InstallScripts:  install,
		RollbackScripts: rollback,
	}
}
