package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Sem caracteres ambíguos (0/O, 1/l/I) para IDs lidos por pessoas no histórico
const idAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const idLength = 10

// GenerateID ID curto das análises
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
