package install

import "github.com/reddec/sail-ssl-proxy/internal/fault"

// Stage of the install pipeline. Stages run in declaration order, each at most once.
type Stage int

const (
	ProvisionDirs Stage = iota
	WriteProxyConfig
	LoadCompose
	MergeCompose
	SaveCompose
	PatchMiddleware
	Done
)

func (s Stage) String() string {
	switch s {
	case ProvisionDirs:
		return "provision-dirs"
	case WriteProxyConfig:
		return "write-proxy-config"
	case LoadCompose:
		return "load-compose"
	case MergeCompose:
		return "merge-compose"
	case SaveCompose:
		return "save-compose"
	case PatchMiddleware:
		return "patch-middleware"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

type Status int

const (
	StatusSuccess      Status = iota // everything installed
	StatusManualAction               // installed, but middleware must be configured by user
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusManualAction:
		return "manual-action"
	default:
		return "failure"
	}
}

type stageKind struct {
	stage Stage
	kind  fault.Kind
}

// messages for failures where the stage alone defines what went wrong for the user
var messages = map[stageKind]string{ // nolint:gochecknoglobals
	{ProvisionDirs, fault.InvalidTarget}: "Unable to understand which directory will be used to store the certificates and authorities",
	{LoadCompose, fault.Parse}:           "Unable to parse the YAML contents of the Docker Compose file",
	{MergeCompose, fault.Merge}:          "Unable to add the SSL Proxy Service to the Docker Compose settings",
	{PatchMiddleware, fault.NotFound}:    "The default TrustProxies middleware doesn't exist",
}

// fallback messages, used when the failure carries no message of its own
var generic = map[Stage]string{ // nolint:gochecknoglobals
	ProvisionDirs:    "Unable to ensure the directories that will be used as Docker Volumes for certificates and authorities",
	WriteProxyConfig: "Unable to write the Caddyfile that will be used to configure the reverse proxy",
	LoadCompose:      "Unable to retrieve the contents of the Docker Compose file",
	MergeCompose:     "Unable to add the SSL Proxy Service to the Docker Compose settings",
	SaveCompose:      "Unable to rewrite the Docker Compose file with the updated settings",
	PatchMiddleware:  "Unable to rewrite TrustProxies.php",
}

// Describe returns user-facing message for the failure at the stage.
func Describe(stage Stage, err error) string {
	if msg, ok := messages[stageKind{stage, fault.KindOf(err)}]; ok {
		return msg
	}
	if msg := fault.MessageOf(err); msg != "" {
		return msg
	}
	return generic[stage]
}
