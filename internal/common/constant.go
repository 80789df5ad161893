package common

// Record keys in the local key/value store.
const (
	RecordVault     = "vault"
	RecordRemember  = "remember"
	RecordDeviceKey = "device_key"
)
