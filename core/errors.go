package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分类：
//   - INVALID_INPUT：请求不合法（缺少信号权重、limit <= 0、评分越界），在任何存储访问前拒绝
//   - NOT_FOUND：焦点电影不存在，直接透出给调用方，绝不静默替换
//   - DATA_INTEGRITY：索引与元数据不一致、向量载荷损坏，记录级处理（丢弃该候选），请求本身成功
//   - UNAVAILABLE：存储超时/连接失败，整个请求失败，绝不返回部分信号的重排结果
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "recall", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
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

// IsDomainError 检查错误是否为 DomainError 类型。
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"       // 资源不存在
	ErrorCodeInvalidInput  = "INVALID_INPUT"   // 输入无效
	ErrorCodeDataIntegrity = "DATA_INTEGRITY"  // 数据一致性损坏（向量损坏、索引与元数据漂移）
	ErrorCodeUnavailable   = "UNAVAILABLE"     // 存储不可用
	ErrorCodeNotSupported  = "NOT_SUPPORTED"   // 操作不支持
	ErrorCodeInternalError = "INTERNAL_ERROR"  // 内部错误
)

// 模块名称常量
const (
	ModuleStore  = "store"  // 存储模块
	ModuleRecall = "recall" // 召回模块
	ModuleRank   = "rank"   // 排序模块
	ModuleEngine = "engine" // 推荐引擎
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsDataIntegrity 检查错误是否为 DATA_INTEGRITY。
func IsDataIntegrity(err error) bool { return hasCode(err, ErrorCodeDataIntegrity) }

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// AsUnavailable 将非领域错误（驱动错误、context 超时等）归一为 UNAVAILABLE。
// 已经是 DomainError 的错误原样返回，保留其原始语义（如 NOT_FOUND）。
func AsUnavailable(module string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return NewDomainError(module, ErrorCodeUnavailable, module+": "+err.Error())
}
