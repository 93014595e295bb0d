package asignacion

import "strings"

// ValidationError 业务规则校验失败。Motivos 汇总本次请求违反的全部规则
// （旧系统有的接口只回第一条、有的回数组，这里统一为列表）。
type ValidationError struct {
	Motivos []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Motivos) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Motivos, "; ")
}

func newValidationError(motivos ...string) *ValidationError {
	return &ValidationError{Motivos: motivos}
}
