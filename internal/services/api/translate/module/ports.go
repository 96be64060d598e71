package module

import (
	"cronslate/internal/adapters/model"
	qdom "cronslate/internal/services/quota/domain"
)

// Ports holds the dependencies this module needs injected at mount time
// the completer and admitter are owned elsewhere
type Ports struct {
	Completer model.Completer
	Admitter  qdom.AdmitterPort
}
