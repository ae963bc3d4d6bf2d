package scriptdef

// CatalogEntry is one well-known system fact a generated script can derive at runtime.
type CatalogEntry struct {
	Key         int
	Name        string
	Expression  string
	Description string
}

// StaticVariable converts the entry into a derived static variable.
func (e CatalogEntry) StaticVariable() StaticVariable {
	return StaticVariable{
		Name:        e.Name,
		SourceKind:  SourceDerived,
		Value:       e.Expression,
		Description: e.Description,
	}
}

var standardVariableCatalog = []CatalogEntry{
	{1, "SERIAL_NUMBER", `$(system_profiler SPHardwareDataType | awk '/Serial Number/{print $4}')`, "Hardware serial number"},
	{2, "CURRENT_USER", `$(stat -f%Su /dev/console)`, "User logged in at the console"},
	{3, "OS_VERSION", `$(sw_vers -productVersion)`, "macOS product version"},
	{4, "OS_BUILD", `$(sw_vers -buildVersion)`, "macOS build number"},
	{5, "COMPUTER_NAME", `$(scutil --get ComputerName)`, "Computer name shown in Sharing"},
	{6, "HOSTNAME", `$(hostname)`, "Network hostname"},
	{7, "MODEL_IDENTIFIER", `$(sysctl -n hw.model)`, "Hardware model identifier"},
	{8, "ARCHITECTURE", `$(uname -m)`, "CPU architecture (arm64 or x86_64)"},
	{9, "CURRENT_USER_HOME", `$(dscl . -read "/Users/$(stat -f%Su /dev/console)" NFSHomeDirectory | awk '{print $2}')`, "Home directory of the console user"},
	{10, "CURRENT_USER_UID", `$(id -u "$(stat -f%Su /dev/console)")`, "UID of the console user"},
	{11, "FREE_DISK_SPACE", `$(df -H / | awk 'NR==2{print $4}')`, "Free space on the boot volume"},
	{12, "TIMESTAMP", `$(date +%Y-%m-%d_%H-%M-%S)`, "Run timestamp"},
}

// StandardVariableCatalog returns a copy of the ordered catalog; keys run 1..12.
func StandardVariableCatalog() []CatalogEntry {
	out := make([]CatalogEntry, len(standardVariableCatalog))
	copy(out, standardVariableCatalog)
	return out
}

// Lookup returns the catalog entry for key.
func Lookup(key int) (CatalogEntry, bool) {
	for _, e := range standardVariableCatalog {
		if e.Key == key {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
