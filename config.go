package reusableblocks

import "github.com/goliatone/go-reusable-blocks/internal/runtimeconfig"

var (
	ErrMaxNestingDepthInvalid  = runtimeconfig.ErrMaxNestingDepthInvalid
	ErrSegmentTypeNameRequired = runtimeconfig.ErrSegmentTypeNameRequired
	ErrSegmentTypeKindUnknown  = runtimeconfig.ErrSegmentTypeKindUnknown
	ErrSegmentTypeDuplicate    = runtimeconfig.ErrSegmentTypeDuplicate
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
)

type (
	Config            = runtimeconfig.Config
	RenderConfig      = runtimeconfig.RenderConfig
	SegmentTypeConfig = runtimeconfig.SegmentTypeConfig
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
)

// Segment kinds accepted by SegmentTypeConfig registrations.
const (
	SegmentKindText      = runtimeconfig.SegmentKindText
	SegmentKindReference = runtimeconfig.SegmentKindReference
	SegmentKindLayout    = runtimeconfig.SegmentKindLayout
)

// DefaultMaxNestingDepth caps recursive reusable-block expansion.
const DefaultMaxNestingDepth = runtimeconfig.DefaultMaxNestingDepth

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
