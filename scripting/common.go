package scripting

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

var (
	ErrFailedTypeAssertion = errors.New("failed type assertion")
	ErrMissingRuleFunction = errors.New("missing `" + ruleFnName + "` function")
)

func LuaTableToSliceOfStrings(val *lua.LTable) ([]string, error) {
	tableSize := val.Len()
	ans := make([]string, tableSize)
	for i := 1; i <= tableSize; i++ { // note: Lua tables are 1-based
		v := val.RawGetInt(i)
		if tv, ok := v.(lua.LString); ok {
			ans[i-1] = string(tv)

		} else {
			return ans, ErrFailedTypeAssertion
		}
	}
	return ans, nil
}
