package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeMalformedRecord  Code = "MALFORMED_RECORD"
	CodeUnknownEnumValue Code = "UNKNOWN_ENUM_VALUE"
	CodeInvalidRange     Code = "INVALID_RANGE"
	CodeDuplicateRecord  Code = "DUPLICATE_RECORD"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeDependency       Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	PublicMessage  string
	DetailsAllowed bool
	// RecordLevel codes reject a single input record; any other code on a rejection means
	// the normalizer itself failed.
	RecordLevel bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeMalformedRecord: {
		PublicMessage:  "record field could not be parsed",
		DetailsAllowed: true,
		RecordLevel:    true,
	},
	CodeUnknownEnumValue: {
		PublicMessage:  "record field holds an unrecognized code",
		DetailsAllowed: true,
		RecordLevel:    true,
	},
	CodeInvalidRange: {
		PublicMessage:  "record field is out of range",
		DetailsAllowed: true,
		RecordLevel:    true,
	},
	CodeDuplicateRecord: {
		PublicMessage:  "record duplicates an earlier record",
		DetailsAllowed: true,
		RecordLevel:    true,
	},
	CodeInternal: {
		PublicMessage: "internal error",
	},
	CodeDependency: {
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether any typed error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		typed := As(err)
		if typed == nil {
			return false
		}
		if typed.code == code {
			return true
		}
		err = typed.cause
	}
	return false
}
