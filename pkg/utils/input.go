// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// AppendJustPressedKeys 把 keys 中本帧刚按下的键追加到 dst
// 顺序与 keys 一致
func AppendJustPressedKeys(dst []ebiten.Key, keys []ebiten.Key) []ebiten.Key {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			dst = append(dst, k)
		}
	}
	return dst
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}
