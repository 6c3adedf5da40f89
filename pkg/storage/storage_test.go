package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveJSON(t *testing.T) {
	t.Run("Grava o JSON indentado e devolve o caminho", func(t *testing.T) {
		dir := t.TempDir()

		path, err := SaveJSON(dir, "relatorio.json", map[string]interface{}{
			"campaign_id": "camp-1",
			"adset_ids":   []string{"a", "b"},
		})

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "relatorio.json"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.Equal(t, "camp-1", decoded["campaign_id"])
	})

	t.Run("Cria os diretórios intermediários quando necessário", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "2026-03-10", "snapshots")

		path, err := SaveJSON(dir, "structure_act_123.json", map[string]string{"ok": "sim"})

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("Dado não serializável devolve erro", func(t *testing.T) {
		_, err := SaveJSON(t.TempDir(), "invalido.json", map[string]interface{}{
			"canal": make(chan int),
		})

		assert.Error(t, err)
	})
}
