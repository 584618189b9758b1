// Package repository define las entidades del dominio y las interfaces de
// acceso a datos. Los drivers concretos viven en internal/store.
//
// Toda operación retorna errores sentinela de este paquete (ErrNotFound,
// ErrConflict, ...) para que los callers no dependan de un driver concreto.
package repository
