package constant

const (
	// AlertSubjectSuspicious is the NATS subject suspicious ticket alerts are published to.
	AlertSubjectSuspicious = "PORTAL.alerts.suspicious"
)
