package stdlib

import (
	"os"
	"strings"
	"time"

	. "github.com/lollipopkit/glua/api"
)

var startupTime = time.Now()

var osLib = map[string]GoFunction{
	"clock":    osClock,
	"time":     osTime,
	"date":     osDate,
	"difftime": osDiffTime,
	"getenv":   osGetEnv,
	"remove":   osRemove,
	"rename":   osRename,
	"tmpname":  osTmpName,
	"exit":     osExit,
}

func OpenOSLib(ls LuaState) int {
	ls.NewLib(osLib)
	return 1
}

// os.clock ()
func osClock(ls LuaState) int {
	ls.PushNumber(time.Since(startupTime).Seconds())
	return 1
}

// os.time ([table])
func osTime(ls LuaState) int {
	if ls.IsNoneOrNil(1) {
		ls.PushInteger(time.Now().Unix())
		return 1
	}

	ls.CheckType(1, LUA_TTABLE)
	sec := _timeField(ls, "sec", 0)
	min := _timeField(ls, "min", 0)
	hour := _timeField(ls, "hour", 12)
	day := _timeField(ls, "day", -1)
	month := _timeField(ls, "month", -1)
	year := _timeField(ls, "year", -1)
	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local)
	ls.PushInteger(t.Unix())
	return 1
}

// lua-5.1.5/src/loslib.c#getfield()
func _timeField(ls LuaState, key string, dft int) int {
	t := ls.GetField(1, key)
	res, isNum := ls.ToIntegerX(-1)
	if !isNum {
		if t != LUA_TNIL {
			ls.Error2("field '%s' is not an integer", key)
		} else if dft < 0 {
			ls.Error2("field '%s' missing in date table", key)
		}
		res = int64(dft)
	}
	ls.Pop(1)
	return int(res)
}

// os.date ([format [, time]])
func osDate(ls LuaState) int {
	format := ls.OptString(1, "%c")
	var t time.Time
	if ls.IsNumber(2) {
		t = time.Unix(ls.ToInteger(2), 0)
	} else {
		t = time.Now()
	}
	if strings.HasPrefix(format, "!") {
		format = format[1:]
		t = t.UTC()
	}

	if strings.HasPrefix(format, "*t") {
		ls.CreateTable(0, 8)
		ls.PushInteger(int64(t.Year()))
		ls.SetField(-2, "year")
		ls.PushInteger(int64(t.Month()))
		ls.SetField(-2, "month")
		ls.PushInteger(int64(t.Day()))
		ls.SetField(-2, "day")
		ls.PushInteger(int64(t.Hour()))
		ls.SetField(-2, "hour")
		ls.PushInteger(int64(t.Minute()))
		ls.SetField(-2, "min")
		ls.PushInteger(int64(t.Second()))
		ls.SetField(-2, "sec")
		ls.PushInteger(int64(t.Weekday()) + 1)
		ls.SetField(-2, "wday")
		ls.PushInteger(int64(t.YearDay()))
		ls.SetField(-2, "yday")
		return 1
	}

	ls.PushString(_strftime(format, t))
	return 1
}

var strftimeReplacer = strings.NewReplacer(
	"%Y", "2006", "%y", "06",
	"%m", "01", "%d", "02",
	"%H", "15", "%M", "04", "%S", "05",
	"%a", "Mon", "%A", "Monday",
	"%b", "Jan", "%B", "January",
	"%c", "Mon Jan  2 15:04:05 2006",
	"%x", "01/02/06", "%X", "15:04:05",
	"%p", "PM",
	"%%", "%",
)

func _strftime(format string, t time.Time) string {
	return t.Format(strftimeReplacer.Replace(format))
}

// os.difftime (t2, t1)
func osDiffTime(ls LuaState) int {
	t2 := ls.CheckNumber(1)
	t1 := ls.CheckNumber(2)
	ls.PushNumber(t2 - t1)
	return 1
}

// os.getenv (varname)
func osGetEnv(ls LuaState) int {
	if env, found := os.LookupEnv(ls.CheckString(1)); found {
		ls.PushString(env)
	} else {
		ls.PushNil()
	}
	return 1
}

// os.remove (filename)
func osRemove(ls LuaState) int {
	filename := ls.CheckString(1)
	if err := os.Remove(filename); err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	ls.PushBoolean(true)
	return 1
}

// os.rename (oldname, newname)
func osRename(ls LuaState) int {
	oldName := ls.CheckString(1)
	newName := ls.CheckString(2)
	if err := os.Rename(oldName, newName); err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	ls.PushBoolean(true)
	return 1
}

// os.tmpname ()
func osTmpName(ls LuaState) int {
	f, err := os.CreateTemp("", "lua")
	if err != nil {
		return ls.Error2("unable to generate a unique filename")
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	ls.PushString(name)
	return 1
}

// os.exit ([code])
func osExit(ls LuaState) int {
	os.Exit(int(ls.OptInteger(1, 0)))
	return 0
}
