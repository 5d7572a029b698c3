package render

import (
	lua "github.com/yuin/gopher-lua"
)

// ScriptedPass is a render pass whose Dispatch/Execute bodies are Lua
// functions: a host can reshape pass behaviour by swapping a script,
// no Go recompile required. The engine only exposes the hook; it
// never ships a default script.
type ScriptedPass struct {
	name  string
	state *lua.LState
}

// NewScriptedPass loads script and binds it to name. The script must
// define two global functions:
//
//	function dispatch(payload_json)
//	function execute(renderable_count) -> primitives, calls, failed
func NewScriptedPass(name, script string) (*ScriptedPass, error) {
	state := lua.NewState()
	if err := state.DoString(script); err != nil {
		state.Close()
		return nil, wrapErr("new_scripted_pass", KindPipelineCreateError, name, err)
	}
	return &ScriptedPass{name: name, state: state}, nil
}

func (p *ScriptedPass) Name() string { return p.name }

// Dispatch passes the event payload to the script's dispatch function
// as a string; callers that need structured data encode it themselves
// (JSON, a delimited key=value list) before calling PushPassEvent.
func (p *ScriptedPass) Dispatch(payload string) {
	fn := p.state.GetGlobal("dispatch")
	if fn.Type() != lua.LTFunction {
		return
	}
	_ = p.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LString(payload))
}

func (p *ScriptedPass) Execute(ctx *ChainExecuteCtx) (PassResult, error) {
	fn := p.state.GetGlobal("execute")
	if fn.Type() != lua.LTFunction {
		return PassResult{}, nil
	}
	if err := p.state.CallByParam(lua.P{Fn: fn, NRet: 3, Protect: true}, lua.LNumber(len(ctx.Renderables))); err != nil {
		return PassResult{}, wrapErr("execute", KindPipelineExecuteError, p.name, err)
	}
	defer p.state.Pop(3)

	primitives := p.state.ToInt64(-3)
	calls := p.state.ToInt64(-2)
	failed := lua.LVAsBool(p.state.Get(-1))
	return PassResult{Primitives: uint64(primitives), Calls: uint64(calls), Failed: failed}, nil
}

// Close releases the Lua state. Call once the pass is removed from its
// pipeline.
func (p *ScriptedPass) Close() error {
	p.state.Close()
	return nil
}
