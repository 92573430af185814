package lint

import (
	"errors"
	"fmt"

	"jvlint/internal/classfile"
	"jvlint/internal/diag"
	"jvlint/internal/opcode"
	"jvlint/internal/scan"
	"jvlint/internal/source"
)

// MethodRefRule flags non-capturing lambdas whose synthetic body does
// nothing but call one zero-argument instance method and return the
// result. Such a lambda compiles to a synthetic method behind an
// invokedynamic call site; writing a method reference instead drops that
// indirection.
//
// The rule runs three phases over one class:
//
//  1. classify: walk every method once and collect invokedynamic sites
//     whose bootstrap handle is an invokestatic reference to a non-void
//     method of this same class;
//  2. verify: re-scan each referenced synthetic method under a small state
//     machine that accepts exactly {load receiver; invoke zero-arg
//     instance method; return};
//  3. report: emit one diagnostic per surviving call site, in the order
//     the sites were found.
//
// Phase 1 output is immutable; phase 2 only builds a verdict per key. A
// synthetic method is identified by name plus descriptor; the rule never
// assumes synthetic methods follow their callers in declaration order.
type MethodRefRule struct{}

func (MethodRefRule) Name() string { return "lambda-method-ref" }

func (MethodRefRule) Code() diag.Code { return diag.LintLambdaMethodRef }

// methodKey identifies a synthetic method within its class.
type methodKey struct {
	name       string
	descriptor string
}

// callSite is one qualifying invokedynamic instruction recorded by the
// classifier pass.
type callSite struct {
	key methodKey
	loc source.Location
}

func (MethodRefRule) Check(cls *classfile.Class, file source.FileID, rep diag.Reporter) {
	// Lambdas desugar through invokedynamic only since Java 8; older
	// classes and classes without a BootstrapMethods attribute cannot
	// contain a candidate, so they are skipped without decoding anything.
	if cls.MajorVersion < classfile.MajorJava8 {
		return
	}
	bootstrap, ok := cls.Attribute(classfile.AttrBootstrapMethods)
	if !ok {
		return
	}
	className, err := cls.Name()
	if err != nil {
		return
	}

	sites, err := classifyCallSites(cls, className, bootstrap.Raw, file)
	if err != nil {
		// Malformed bootstrap data is a per-class condition: report
		// nothing for this class, never crash.
		return
	}
	if len(sites) == 0 {
		return
	}

	confirmed := make(map[methodKey]bool, len(sites))
	for _, site := range sites {
		if _, seen := confirmed[site.key]; !seen {
			confirmed[site.key] = verifyLambdaBody(cls, site.key)
		}
	}

	for _, site := range sites {
		if !confirmed[site.key] {
			continue
		}
		msg := fmt.Sprintf("lambda is equivalent to a method reference; %s only forwards to a zero-argument method", site.key.name)
		rep.Report(diag.LintLambdaMethodRef, diag.SevWarning, site.loc, msg, nil)
	}
}

// classifyCallSites is the first pass: it walks every method's instruction
// stream once and records each invokedynamic site whose bootstrap-bound
// handle qualifies. A decode error in the bootstrap attribute aborts the
// class; an unresolvable constant only disqualifies the site at hand.
func classifyCallSites(cls *classfile.Class, className string, bootstrapRaw []byte, file source.FileID) ([]callSite, error) {
	var sites []callSite
	var abort error

	for i := range cls.Methods {
		m := &cls.Methods[i]
		if m.Code == nil {
			continue
		}
		// Cheap prescreen: a method whose code bytes never contain the
		// invokedynamic opcode cannot host a call site.
		if !scan.Contains(m.Code.Bytecode, opcode.Invokedynamic) {
			continue
		}
		walkErr := scan.Walk(m.Code.Bytecode, func(ins scan.Instruction) bool {
			if ins.Op != opcode.Invokedynamic {
				return true
			}
			key, ok, err := qualifyCallSite(cls, className, bootstrapRaw, ins)
			if err != nil {
				abort = err
				return false
			}
			if ok {
				pc := uint16(ins.PC)
				sites = append(sites, callSite{
					key: key,
					loc: source.Location{
						File:   file,
						Class:  className,
						Method: m.Name + m.Descriptor,
						PC:     pc,
						Line:   m.Code.LineAt(pc),
					},
				})
			}
			return true
		})
		if abort != nil {
			return nil, abort
		}
		if walkErr != nil {
			// Undecodable code in one method does not poison the sites
			// already collected from other methods.
			continue
		}
	}
	return sites, nil
}

// qualifyCallSite applies the classifier predicate to one invokedynamic
// instruction: the bootstrap-bound handle must be an invokestatic
// reference to a non-void method of the class under analysis.
func qualifyCallSite(cls *classfile.Class, className string, bootstrapRaw []byte, ins scan.Instruction) (methodKey, bool, error) {
	cpIndex, err := ins.Operand16(0)
	if err != nil {
		return methodKey{}, false, nil
	}
	indy, err := cls.Pool.InvokeDynamic(cpIndex)
	if err != nil {
		// Unresolvable constant: disqualify this site only.
		return methodKey{}, false, nil
	}
	handle, err := classfile.BootstrapHandleAt(bootstrapRaw, cls.Pool, indy.BootstrapIndex)
	if err != nil {
		if errors.Is(err, classfile.ErrNoHandle) || errors.Is(err, classfile.ErrResolve) {
			return methodKey{}, false, nil
		}
		// Truncated or inconsistent attribute bytes: abort the class.
		return methodKey{}, false, err
	}
	if handle.Kind != classfile.RefInvokeStatic {
		return methodKey{}, false, nil
	}
	ref, err := cls.Pool.MethodRef(handle.RefIndex)
	if err != nil {
		return methodKey{}, false, nil
	}
	if ref.Class != className {
		return methodKey{}, false, nil
	}
	if classfile.ReturnsVoid(ref.Descriptor) {
		// A void-returning forwarder is not interchangeable with a method
		// reference the same way a value-returning one is.
		return methodKey{}, false, nil
	}
	return methodKey{name: ref.Name, descriptor: ref.Descriptor}, true, nil
}

// Verifier state machine. The scan stops feeding instructions as soon as a
// verdict lands, so only the first few instructions of the synthetic
// method are ever decoded.
type verifyState uint8

const (
	stateStart verifyState = iota
	stateSeenReceiverLoad
	stateSeenInvoke
)

type verdict uint8

const (
	verdictContinue verdict = iota
	verdictConfirmed
	verdictDisqualified
)

// verifyLambdaBody is the second pass for one candidate key: locate the
// named synthetic method and check that its body matches the trivial
// forwarder shape exactly. Missing method, non-synthetic flags, missing
// code or an undecodable stream all disqualify; a scan that ends without
// reaching a verdict never confirms.
func verifyLambdaBody(cls *classfile.Class, key methodKey) bool {
	m := cls.FindMethod(key.name, key.descriptor)
	if m == nil || !m.IsSynthetic() || m.Code == nil {
		return false
	}

	state := stateStart
	result := verdictContinue
	err := scan.Walk(m.Code.Bytecode, func(ins scan.Instruction) bool {
		var v verdict
		state, v = stepVerify(state, ins, cls.Pool)
		if v != verdictContinue {
			result = v
			return false
		}
		return true
	})
	if err != nil {
		return false
	}
	return result == verdictConfirmed
}

func stepVerify(state verifyState, ins scan.Instruction, pool classfile.Pool) (verifyState, verdict) {
	switch state {
	case stateStart:
		if ins.Op == opcode.Aload0 {
			return stateSeenReceiverLoad, verdictContinue
		}
		return state, verdictDisqualified

	case stateSeenReceiverLoad:
		if ins.Op != opcode.Invokevirtual && ins.Op != opcode.Invokeinterface {
			return state, verdictDisqualified
		}
		cpIndex, err := ins.Operand16(0)
		if err != nil {
			return state, verdictDisqualified
		}
		ref, err := pool.MethodRef(cpIndex)
		if err != nil {
			return state, verdictDisqualified
		}
		if !classfile.HasNoArgs(ref.Descriptor) {
			return state, verdictDisqualified
		}
		return stateSeenInvoke, verdictContinue

	case stateSeenInvoke:
		if ins.Op.IsReturn() {
			return state, verdictConfirmed
		}
		return state, verdictDisqualified
	}
	return state, verdictDisqualified
}
