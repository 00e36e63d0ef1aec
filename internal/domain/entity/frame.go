package entity

// Frame закодированное изображение (JPEG) с камеры или вырезанная из него область.
// Содержимое для конвейера непрозрачно.
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// Empty сообщает, что кадр пустой.
func (f Frame) Empty() bool {
	return len(f.Data) == 0 || f.Width <= 0 || f.Height <= 0
}
