package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
type DomainError struct {
	Code    string // 错误代码（如 "VALIDATION", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "engine", "rating"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeValidation   = "VALIDATION"    // 输入校验失败（对外 4xx）
	ErrorCodeStorage      = "STORAGE"       // 仓储读写失败
	ErrorCodeInternal     = "INTERNAL"      // 内部错误（整条链路兜底都失败时才对外 5xx）
)

// 模块名称常量
const (
	ModuleStore  = "store"
	ModuleEngine = "engine"
	ModuleRecall = "recall"
	ModuleRating = "rating"
	ModuleCache  = "cache"
)

// NewValidationError 创建一个输入校验错误。
func NewValidationError(module, message string) *DomainError {
	return NewDomainError(module, ErrorCodeValidation, message)
}

// NewStorageError 包装一次仓储读写失败。
func NewStorageError(module string, err error) *DomainError {
	msg := "storage failure"
	if err != nil {
		msg = "storage failure: " + err.Error()
	}
	return NewDomainError(module, ErrorCodeStorage, msg)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsValidation 检查错误是否为校验失败。
func IsValidation(err error) bool { return hasCode(err, ErrorCodeValidation) }

// IsNotFound 检查错误是否为资源不存在。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsStorage 检查错误是否为仓储读写失败。
func IsStorage(err error) bool { return hasCode(err, ErrorCodeStorage) }
