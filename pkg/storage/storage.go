// Package storage persiste estruturas serializáveis em JSON no disco,
// usado para os relatórios de clonagem e para as fotografias diárias da
// hierarquia de campanhas
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SaveJSON grava o dado como JSON indentado dentro da pasta informada,
// criando os diretórios necessários. Devolve o caminho completo do arquivo.
func SaveJSON(folderPath, fileName string, data interface{}) (string, error) {
	if err := os.MkdirAll(folderPath, 0o755); err != nil {
		return "", err
	}

	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(folderPath, fileName)
	if err := os.WriteFile(filePath, encoded, 0o644); err != nil {
		return "", err
	}

	logrus.WithField("path", filePath).Info("Dados salvos com sucesso")
	return filePath, nil
}
