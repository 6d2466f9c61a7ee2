package pipeline

// stage 流水线阶段
type stage int

const (
	stageValidate stage = iota
	stageContext
	stagePlan
	stageAct
	stageGenerate
	stagePersist
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageValidate:
		return "validate"
	case stageContext:
		return "context"
	case stagePlan:
		return "plan"
	case stageAct:
		return "act"
	case stageGenerate:
		return "generate"
	case stagePersist:
		return "persist"
	default:
		return "done"
	}
}

// stageStatus 阶段结果标签
// Rejected 是输入被拒 (无副作用)；Failed 是执行失败 (终止流)
type stageStatus int

const (
	stageOK stageStatus = iota
	stageRejected
	stageFailed
)

type stageResult struct {
	status stageStatus
	reason string // Rejected 时的原因
	err    error  // Failed 时的根因
}

func ok() stageResult { return stageResult{status: stageOK} }

func rejected(reason string) stageResult {
	return stageResult{status: stageRejected, reason: reason}
}

func failed(err error) stageResult {
	return stageResult{status: stageFailed, err: err}
}

// next 状态转移
// 非 OK 一律终止；act 阶段只有规划器要求时才进入
func next(s stage, r stageResult, runFeature bool) stage {
	if r.status != stageOK {
		return stageDone
	}
	switch s {
	case stageValidate:
		return stageContext
	case stageContext:
		return stagePlan
	case stagePlan:
		if runFeature {
			return stageAct
		}
		return stageGenerate
	case stageAct:
		return stageGenerate
	case stageGenerate:
		return stagePersist
	default:
		return stageDone
	}
}
