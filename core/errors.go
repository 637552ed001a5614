package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误恢复策略（与 Feed 语义绑定）：
//   - NOT_FOUND（用户画像缺失）：本地降级为匿名画像，不向调用方透出
//   - PARTIAL_RESULT（部分文章缺特征）：剔除后继续，记入监控
//   - TIMEOUT（特征存储超时）：候选源降级为 recency-only，仅在诊断中标记
//   - INVALID_PARAMETER（λ 越界、页大小非法）：快速失败，唯一对外可见的错误类
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_PARAMETER"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "feature", "recall"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"          // 资源不存在
	ErrorCodePartialResult    = "PARTIAL_RESULT"     // 批量读取部分缺失
	ErrorCodeTimeout          = "TIMEOUT"            // 依赖超时
	ErrorCodeInvalidParameter = "INVALID_PARAMETER"  // 请求参数非法
	ErrorCodeNotSupported     = "NOT_SUPPORTED"      // 操作不支持
	ErrorCodeUnavailable      = "UNAVAILABLE"        // 服务不可用
	ErrorCodeInternalError    = "INTERNAL_ERROR"     // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleFeature = "feature" // 特征模块
	ModuleRecall  = "recall"  // 召回模块
	ModuleVector  = "vector"  // 向量模块
	ModuleFeed    = "feed"    // Feed 装配模块
	ModuleCore    = "core"    // 领域模块
)

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsPartialResult 检查错误是否为 PARTIAL_RESULT
func IsPartialResult(err error) bool { return hasCode(err, ErrorCodePartialResult) }

// IsTimeout 检查错误是否为 TIMEOUT
func IsTimeout(err error) bool { return hasCode(err, ErrorCodeTimeout) }

// IsInvalidParameter 检查错误是否为 INVALID_PARAMETER
func IsInvalidParameter(err error) bool { return hasCode(err, ErrorCodeInvalidParameter) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }
