package domain

import "errors"

// Argument errors - 參數解析層錯誤
var (
	// ErrArgument indicates a malformed, duplicate, or unknown predicate
	ErrArgument = errors.New("invalid argument")

	// ErrMissingArgument indicates a predicate that requires a value got none
	ErrMissingArgument = errors.New("missing argument")

	// ErrUnknownPredicate indicates a predicate name that is not supported
	ErrUnknownPredicate = errors.New("unknown predicate")
)

// Filesystem errors - 檔案系統層錯誤
var (
	// ErrNotFound indicates the requested path does not exist
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotDirectory indicates expected a directory but got something else
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotSymlink indicates a link target was requested for a non-link
	ErrNotSymlink = errors.New("not a symbolic link")

	// ErrStat indicates metadata for an entry could not be obtained
	ErrStat = errors.New("stat failed")
)

// Config errors - 設定檔錯誤
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)

// IsArgumentError reports whether err came from command line parsing
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrArgument) ||
		errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrUnknownPredicate)
}
