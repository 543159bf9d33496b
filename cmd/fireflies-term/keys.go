package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/decker502/fireflies/pkg/game"
)

// runeActions 字符键到操作的映射，与桌面端一致
var runeActions = map[rune]game.Action{
	'1': game.ActionHeart,
	'2': game.ActionArrowHeart,
	'0': game.ActionScatter,
	' ': game.ActionScatter,
	'+': game.ActionMoreFireflies,
	'=': game.ActionMoreFireflies,
	'-': game.ActionFewerFireflies,
	'p': game.ActionNextPreset,
	'h': game.ActionToggleHelp,
	's': game.ActionToggleSound,
	't': game.ActionCycleShape,
}

// actionForKey 把按键事件映射为操作
// 返回：操作，以及是否退出
func actionForKey(ev *tcell.EventKey) (game.Action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.ActionNone, true
	case tcell.KeyRune:
		r := ev.Rune()
		if r == 'q' || r == 'Q' {
			return game.ActionNone, true
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return runeActions[r], false
	}
	return game.ActionNone, false
}
