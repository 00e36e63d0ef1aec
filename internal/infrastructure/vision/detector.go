//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"egg-grader/internal/domain/entity"
	"egg-grader/internal/domain/port"
)

// YOLODetector запускает экспортированную в ONNX модель YOLO через gocv.
type YOLODetector struct {
	net       gocv.Net
	labels    []string
	InputSide int
	NMSThresh float32
	mu        sync.Mutex
}

// NewYOLODetector загружает модель. Ошибка загрузки фатальна при старте.
func NewYOLODetector(modelPath string, labels []string) (*YOLODetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, errors.New("failed to load network")
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("set target: %w", err)
	}

	return &YOLODetector{
		net:       net,
		labels:    labels,
		InputSide: 640,
		NMSThresh: 0.45,
	}, nil
}

// Detect возвращает объекты, отсортированные детектором по убыванию уверенности.
func (d *YOLODetector) Detect(ctx context.Context, frame entity.Frame, minConfidence float64) ([]entity.RawDetection, error) {
	_ = ctx
	mat, err := decodeToMat(frame.Data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.InputSide, d.InputSide), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	// Выход YOLOv8: [1, 4+классы, кандидаты], строки cx, cy, w, h, затем оценки классов.
	sizes := output.Size()
	if len(sizes) != 3 || sizes[1] <= 4 {
		return nil, fmt.Errorf("unexpected model output shape %v", sizes)
	}
	rows, candidates := sizes[1], sizes[2]
	table := output.Reshape(1, rows)
	defer table.Close()

	scaleX := float32(mat.Cols()) / float32(d.InputSide)
	scaleY := float32(mat.Rows()) / float32(d.InputSide)

	var (
		boxes   []image.Rectangle
		scores  []float32
		classes []int
	)
	for i := 0; i < candidates; i++ {
		bestClass, bestScore := -1, float32(0)
		for c := 4; c < rows; c++ {
			if s := table.GetFloatAt(c, i); s > bestScore {
				bestClass, bestScore = c-4, s
			}
		}
		if bestClass < 0 || float64(bestScore) < minConfidence {
			continue
		}

		cx, cy := table.GetFloatAt(0, i)*scaleX, table.GetFloatAt(1, i)*scaleY
		w, h := table.GetFloatAt(2, i)*scaleX, table.GetFloatAt(3, i)*scaleY
		boxes = append(boxes, image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, bestScore)
		classes = append(classes, bestClass)
	}
	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, float32(minConfidence), d.NMSThresh)
	result := make([]entity.RawDetection, 0, len(keep))
	for _, idx := range keep {
		r := boxes[idx]
		result = append(result, entity.RawDetection{
			ClassID:    classes[idx],
			Label:      d.label(classes[idx]),
			Confidence: float64(scores[idx]),
			Box:        entity.BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()},
		})
	}
	sortByConfidence(result)

	return result, nil
}

// Close освобождает сеть.
func (d *YOLODetector) Close() error {
	return d.net.Close()
}

func (d *YOLODetector) label(classID int) string {
	if classID >= 0 && classID < len(d.labels) {
		return d.labels[classID]
	}
	return fmt.Sprintf("class_%d", classID)
}

// MatCropper режет кадр через gocv и кодирует область в JPEG.
type MatCropper struct{}

// Crop возвращает область box кадра.
func (MatCropper) Crop(frame entity.Frame, box entity.BoundingBox) (entity.Frame, error) {
	mat, err := decodeToMat(frame.Data)
	if err != nil {
		return entity.Frame{}, err
	}
	defer mat.Close()

	rect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height).Intersect(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	if rect.Empty() {
		return entity.Frame{}, errors.New("crop is outside the frame")
	}

	region := mat.Region(rect)
	defer region.Close()

	return encodeMat(region)
}

// Camera снимает кадры с устройства видеозахвата.
type Camera struct {
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// OpenCamera открывает камеру по номеру устройства.
func OpenCamera(device int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	capture.Set(gocv.VideoCaptureFrameWidth, 640)
	capture.Set(gocv.VideoCaptureFrameHeight, 480)
	return &Camera{capture: capture}, nil
}

// Capture делает один снимок и кодирует его в JPEG.
func (c *Camera) Capture(ctx context.Context) (entity.Frame, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()

	mat := gocv.NewMat()
	defer mat.Close()

	// Первый кадр в буфере драйвера снят до паузы, пропускаем его.
	c.capture.Grab(1)
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		return entity.Frame{}, errors.New("camera returned no frame")
	}

	return encodeMat(mat)
}

// Close закрывает камеру.
func (c *Camera) Close() error {
	return c.capture.Close()
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func encodeMat(mat gocv.Mat) (entity.Frame, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return entity.Frame{}, fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return entity.Frame{Data: data, Width: mat.Cols(), Height: mat.Rows()}, nil
}

var (
	_ port.ObjectDetector = (*YOLODetector)(nil)
	_ port.FrameCropper   = MatCropper{}
	_ port.FrameSource    = (*Camera)(nil)
)
