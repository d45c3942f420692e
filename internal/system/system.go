package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InputExtensions перечисляет расширения файлов, которые умеет читать source.
var InputExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".pdf"}

// AvailableMemory возвращает объем памяти, который система может выделить
// без свопа.
func AvailableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("не удалось получить информацию о памяти: %w", err)
	}
	return vm.Available, nil
}

// CPUCounts возвращает число физических и логических ядер.
func CPUCounts() (physical, logical int, err error) {
	physical, err = cpu.Counts(false)
	if err != nil {
		return 0, 0, err
	}
	logical, err = cpu.Counts(true)
	if err != nil {
		return 0, 0, err
	}
	return physical, logical, nil
}

// HasInputExtension сообщает, поддерживается ли расширение файла.
func HasInputExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range InputExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FindLatestInput ищет самый свежий поддерживаемый файл в директории.
// Если path указывает на файл, поиск идет в его директории.
func FindLatestInput(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}

	files, err := os.ReadDir(searchDir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !HasInputExtension(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(searchDir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено изображений", searchDir)
	}

	return latestFile, nil
}
