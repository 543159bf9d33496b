package components

// StarComponent 背景星星
// 与萤火虫无交互，在初始化和视口变化时整体重建
type StarComponent struct {
	X, Y    float64
	Radius  float64
	Opacity float64 // 在 [0.1, 1.0] 之间往返

	// TwinkleRate 每帧透明度变化量，越界时反号
	TwinkleRate float64
}
