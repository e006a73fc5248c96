package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator produce números de documento únicos y ordenados en el tiempo
// a partir de IDs snowflake. El prefijo identifica el tipo de documento
// (ej. "INV" para facturas, "QUO" para cotizaciones).
type Generator struct {
	node *snowflake.Node
}

// New crea un generador con el nodo indicado (0-1023).
func New(nodeID int) (*Generator, error) {
	node, err := snowflake.NewNode(int64(nodeID))
	if err != nil {
		return nil, fmt.Errorf("idgen: creando nodo snowflake: %w", err)
	}
	return &Generator{node: node}, nil
}

// Next devuelve el siguiente número con el prefijo dado, ej. "INV-1849301882144768000".
func (g *Generator) Next(prefix string) string {
	id := g.node.Generate()
	if prefix == "" {
		return id.String()
	}
	return fmt.Sprintf("%s-%s", prefix, id.String())
}
