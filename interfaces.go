package chatmod

import (
	"github.com/datar-psa/chatmod/api"
)

type Verdict = api.Verdict
type Method = api.Method
type Classifier = api.Classifier
type LLMGenerator = api.LLMGenerator
type ModerationProvider = api.ModerationProvider
type ProviderError = api.ProviderError

const (
	MethodPrimaryRemote   = api.MethodPrimaryRemote
	MethodSecondaryRemote = api.MethodSecondaryRemote
	MethodLexicon         = api.MethodLexicon
)
