// Package data 嵌入默认配置与预设
//
// 由于 //go:embed 指令只能嵌入当前包目录及其子目录的文件，
// 嵌入声明放在数据目录自身，桌面端与终端端共用同一份数据。
package data

import "embed"

// FS 数据目录的嵌入文件系统，根目录即 data/
//
//go:embed fireflies.yaml presets.yaml
var FS embed.FS
