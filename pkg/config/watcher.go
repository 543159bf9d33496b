package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher 监视外部萤火虫配置文件，文件保存后重新解析
//
// 监视文件所在目录而不是文件本身，编辑器先写临时文件再改名时也能收到通知。
// 解析成功的配置通过 Updates() 发送，宿主每帧非阻塞读取。
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan FireflyConfig
	done    chan struct{}
}

// LoadFireflyConfigFile 从磁盘读取萤火虫配置
func LoadFireflyConfigFile(path string) (FireflyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultFireflyConfig(), fmt.Errorf("failed to read firefly config: %w", err)
	}
	return ParseFireflyConfig(data)
}

// NewConfigWatcher 开始监视配置文件
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *ConfigWatcher: 监视器，使用完毕后调用 Close
//   - error: 无法监视时返回错误
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	cw := &ConfigWatcher{
		path:    abs,
		watcher: w,
		updates: make(chan FireflyConfig, 1),
		done:    make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

// Updates 返回重新解析成功的配置
func (cw *ConfigWatcher) Updates() <-chan FireflyConfig {
	return cw.updates
}

// Close 停止监视
func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done
	return err
}

func (cw *ConfigWatcher) loop() {
	defer close(cw.done)
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadFireflyConfigFile(cw.path)
			if err != nil {
				log.Printf("[ConfigWatcher] Warning: ignoring %s: %v", cw.path, err)
				continue
			}
			cw.publish(cfg)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ConfigWatcher] Warning: %v", err)
		}
	}
}

// publish 只保留最新的一份配置
func (cw *ConfigWatcher) publish(cfg FireflyConfig) {
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- cfg
}
