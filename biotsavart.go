package biotsavart

import (
	"biotsavart/maths"
	"biotsavart/shape"
	"biotsavart/solver"
	"biotsavart/types"
	"biotsavart/utils"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var errShapeMixed = errors.New(".shape 不能与顶点或其他 .shape 混用")

// Coil 载流线圈
type Coil struct {
	*types.Wire
}

// NewCoil 初始化
func NewCoil() *Coil {
	return &Coil{Wire: types.NewWire(maths.NewPhasor(1, 0), 1)}
}

// Load 加载线圈文件
// 支持 .current/.turns/.shape/.name 标记以及每行一个 "x y z" 顶点，# 之后为注释。
func (c *Coil) Load(filename string) (err error) {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return c.Read(file)
}

// Read 从流中读取线圈定义
// .shape 与顶点行互斥，文件中只能出现其中一种。
func (c *Coil) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	shaped := false
	for n := 1; scanner.Scan(); n++ {
		fields := utils.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		// 解析标记
		if fields[0][0] == '.' {
			if strings.EqualFold(fields[0], ".shape") {
				if shaped || c.Len() > 0 {
					return fmt.Errorf("第%d行: %w", n, errShapeMixed)
				}
				shaped = true
			}
			if err := c.directive(fields); err != nil {
				return fmt.Errorf("第%d行: %w", n, err)
			}
			continue
		}
		if shaped {
			return fmt.Errorf("第%d行: %w", n, errShapeMixed)
		}
		v, err := parseVertex(fields)
		if err != nil {
			return fmt.Errorf("第%d行: %w", n, err)
		}
		c.Append(v)
	}
	return scanner.Err()
}

// directive 处理标记行
func (c *Coil) directive(fields utils.NetList) error {
	switch strings.ToLower(fields[0]) {
	case ".name":
		c.Name = fields.ParseString(1, c.Name)
	case ".current":
		if len(fields) < 2 {
			return fmt.Errorf(".current 缺少参数")
		}
		current, err := maths.ParsePhasor(fields[1])
		if err != nil {
			return err
		}
		c.Current = current
	case ".turns":
		n, err := strconv.Atoi(fields.ParseString(1, ""))
		if err != nil {
			return fmt.Errorf(".turns: %w", err)
		}
		c.N = n
	case ".shape":
		if len(fields) < 2 {
			return fmt.Errorf(".shape 缺少形状名称")
		}
		w, err := shape.Build(fields[1], fields[2:], c.Current, max(c.N, 1))
		if err != nil {
			return err
		}
		c.Append(vertices(w)...)
		if c.Name == "" {
			c.Name = w.Name
		}
	default:
		return fmt.Errorf("未知标记: %s", fields[0])
	}
	return nil
}

// Export 导出线圈文件
func (c *Coil) Export(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := c.Write(file); err != nil {
		return err
	}
	return file.Close()
}

// Write 写出线圈定义，顶点以完整精度输出
func (c *Coil) Write(w io.Writer) error {
	writer := bufio.NewWriter(w)
	if c.Name != "" {
		fmt.Fprintf(writer, ".name %s\n", c.Name)
	}
	fmt.Fprintf(writer, ".current %s\n", c.Current)
	fmt.Fprintf(writer, ".turns %d\n", c.N)
	for i := 0; i < c.Len(); i++ {
		writer.WriteString(formatVertex(c.Vertex(i)))
		writer.WriteRune('\n')
	}
	return writer.Flush()
}

// Field 计算线圈在观测点处的磁场
func (c *Coil) Field(points *types.Points, opts ...solver.Option) ([]maths.Field, error) {
	return solver.New(opts...).Solve(c.Wire, points)
}

// LoadPoints 加载观测点文件，每行一个 "x y z"
func LoadPoints(filename string) (*types.Points, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadPoints(file)
}

// ReadPoints 从流中读取观测点
func ReadPoints(r io.Reader) (*types.Points, error) {
	p := types.NewPoints()
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		fields := utils.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		v, err := parseVertex(fields)
		if err != nil {
			return nil, fmt.Errorf("第%d行: %w", n, err)
		}
		p.Append(v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseVertex(fields utils.NetList) (maths.Vec3, error) {
	if len(fields) != 3 {
		return maths.Vec3{}, fmt.Errorf("坐标需要3个数值: %v", []string(fields))
	}
	xyz, err := fields.Floats()
	if err != nil {
		return maths.Vec3{}, err
	}
	return maths.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

func formatVertex(v maths.Vec3) string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Y, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Z, 'g', -1, 64)
}

func vertices(w *types.Wire) []maths.Vec3 {
	vs := make([]maths.Vec3, w.Len())
	for i := range vs {
		vs[i] = w.Vertex(i)
	}
	return vs
}
