package domain

// Fields representa um objeto da Graph API com tipagem fraca, exatamente
// como retornado/enviado pela plataforma. Os payloads de criação também
// são Fields depois de normalizados.
type Fields map[string]any

// GetString retorna o valor do campo como string, ou vazio se ausente
// ou de outro tipo
func (f Fields) GetString(key string) string {
	if f == nil {
		return ""
	}
	if value, ok := f[key].(string); ok {
		return value
	}
	return ""
}

// GetFields retorna o valor do campo como um objeto aninhado, ou nil
func (f Fields) GetFields(key string) Fields {
	if f == nil {
		return nil
	}
	switch value := f[key].(type) {
	case Fields:
		return value
	case map[string]any:
		return Fields(value)
	}
	return nil
}

// GetList retorna o valor do campo como lista, ou nil
func (f Fields) GetList(key string) []any {
	if f == nil {
		return nil
	}
	if value, ok := f[key].([]any); ok {
		return value
	}
	return nil
}

// Has informa se o campo está presente, independente do valor
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Clone devolve uma cópia profunda, para que mutações no payload em
// construção nunca vazem para o template capturado
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	cloned := make(Fields, len(f))
	for key, value := range f {
		cloned[key] = CloneValue(value)
	}
	return cloned
}

// CloneValue copia recursivamente mapas e listas; escalares são retornados
// como estão
func CloneValue(value any) any {
	switch typed := value.(type) {
	case Fields:
		return typed.Clone()
	case map[string]any:
		return Fields(typed).Clone()
	case []any:
		cloned := make([]any, len(typed))
		for i, item := range typed {
			cloned[i] = CloneValue(item)
		}
		return cloned
	default:
		return value
	}
}
