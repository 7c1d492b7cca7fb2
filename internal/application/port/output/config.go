package output

type ConfigPort interface {
	Get(key string) string
	MustGet(key string) string
	GetInt(key string, defaultValue int) int
	GetBool(key string, defaultValue bool) bool
}
