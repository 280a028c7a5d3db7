package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarkusH/CloudRAID-Client/internal/connector"
	"github.com/MarkusH/CloudRAID-Client/internal/logger"
	"github.com/MarkusH/CloudRAID-Client/internal/models"
	"github.com/MarkusH/CloudRAID-Client/internal/session"
)

var (
	host       string
	user       string
	port       int
	sessionDir string
	tempDir    string
	verbose    bool
	timeout    time.Duration
	logPath    string
	update     bool
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "cloudraid-client",
	Short: "CloudRAID服务器命令行客户端",
	Long: `CloudRAID服务器命令行客户端，支持：
- 登录/登出及会话持久化（后续命令无需重新登录）
- 文件的上传、下载和删除
- 获取服务器文件列表
- 注册新用户

密码通过终端交互输入，不会出现在命令行参数和会话目录之外的地方。`,
	Example: `  # 登录并保存会话
  cloudraid-client login --host raid.example.com --port 8080 --user alice

  # 列出服务器上的文件
  cloudraid-client list

  # 下载文件到本地
  cloudraid-client get report.pdf ./report.pdf

  # 上传（--update表示更新已有文件）
  cloudraid-client put report.pdf ./report.pdf --update`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.InitLogger(verbose, logPath)
	},
}

// loginCmd 登录命令
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "登录服务器并保存会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(true)
		if err != nil {
			return fmt.Errorf("配置无效: %w", err)
		}

		password, err := askPassword("Enter password: ")
		if err != nil {
			return err
		}

		creds := models.Credentials{Host: config.Host, User: config.User, Password: password, Port: config.Port}
		conn := connector.New(creds, connector.NewHTTPTransport(creds.Host, creds.Port))
		conn.SetTempDir(config.TempDir)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := conn.Login(ctx); err != nil {
			return fmt.Errorf("登录失败: %w", err)
		}

		store := session.NewStore(config.SessionDir)
		if err := conn.StoreSession(store); err != nil {
			return fmt.Errorf("保存会话失败: %w", err)
		}

		fmt.Printf("已登录: %s@%s\n", creds.User, creds.Address())
		return nil
	},
}

// logoutCmd 登出命令
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "结束服务器上的会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := restoreConnector()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := conn.Logout(ctx); err != nil {
			return fmt.Errorf("登出失败: %w", err)
		}

		fmt.Println("已登出")
		return nil
	},
}

// listCmd 文件列表命令
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "获取服务器文件列表",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := restoreConnector()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		files, err := conn.GetFileList(ctx)
		if err != nil {
			return fmt.Errorf("获取文件列表失败: %w", err)
		}

		printFileList(files)
		return nil
	},
}

// getCmd 下载命令
var getCmd = &cobra.Command{
	Use:   "get <remote-path> [local-path]",
	Short: "从服务器下载文件",
	Long: `从服务器下载文件。
下载内容先写入临时文件；指定local-path时移动到该位置，
否则输出临时文件路径由调用方自行处理。`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := restoreConnector()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		tmpPath, err := conn.GetFile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("下载失败: %w", err)
		}

		if len(args) == 2 {
			if err := os.Rename(tmpPath, args[1]); err != nil {
				return fmt.Errorf("移动临时文件失败: %w", err)
			}
			fmt.Printf("已下载: %s -> %s\n", args[0], args[1])
		} else {
			fmt.Printf("已下载到临时文件: %s\n", tmpPath)
		}
		return nil
	},
}

// putCmd 上传命令
var putCmd = &cobra.Command{
	Use:   "put <remote-path> <local-path>",
	Short: "上传文件到服务器",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := restoreConnector()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := conn.PutFile(ctx, args[0], args[1], update); err != nil {
			return fmt.Errorf("上传失败: %w", err)
		}

		fmt.Printf("已上传: %s -> %s\n", args[1], args[0])
		return nil
	},
}

// deleteCmd 删除命令
var deleteCmd = &cobra.Command{
	Use:   "delete <remote-path>",
	Short: "删除服务器上的文件",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := restoreConnector()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := conn.DeleteFile(ctx, args[0]); err != nil {
			return fmt.Errorf("删除失败: %w", err)
		}

		fmt.Printf("已删除: %s\n", args[0])
		return nil
	},
}

// registerCmd 注册用户命令
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "在服务器上注册新用户",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(true)
		if err != nil {
			return fmt.Errorf("配置无效: %w", err)
		}

		password, err := askPassword("Enter password: ")
		if err != nil {
			return err
		}
		confirm, err := askPassword("Confirm password: ")
		if err != nil {
			return err
		}

		creds := models.Credentials{Host: config.Host, User: config.User, Password: password, Port: config.Port}
		conn := connector.New(creds, connector.NewHTTPTransport(creds.Host, creds.Port))

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := conn.CreateUser(ctx, confirm); err != nil {
			return fmt.Errorf("注册失败: %w", err)
		}

		fmt.Printf("已注册用户: %s\n", creds.User)
		return nil
	},
}

// sessionCmd 会话管理命令
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "管理本地保存的会话",
}

// sessionShowCmd 显示当前会话
var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示本地保存的会话信息",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := restoreConnector()
		if err != nil {
			return err
		}

		fmt.Println(conn)
		return nil
	},
}

// sessionDropCmd 删除本地会话
var sessionDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "删除本地保存的会话文件（不通知服务器）",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore()
		if err != nil {
			return err
		}

		if err := store.Remove(); err != nil {
			return fmt.Errorf("删除会话文件失败: %w", err)
		}

		fmt.Println("已删除本地会话")
		return nil
	},
}

func init() {
	// 添加全局标志
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "服务器主机名（login/register必需）")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "用户名（login/register必需）")
	rootCmd.PersistentFlags().IntVar(&port, "port", 8080, "服务器端口")
	rootCmd.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "会话文件目录（默认为用户配置目录）")
	rootCmd.PersistentFlags().StringVar(&tempDir, "temp-dir", "", "下载临时文件目录（默认为系统临时目录）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "启用详细输出")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "操作超时时间")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-path", "", "日志文件路径（可选，默认仅输出到控制台）")

	// 上传特有标志
	putCmd.Flags().BoolVar(&update, "update", false, "更新服务器上已存在的文件")

	// 添加子命令
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDropCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(sessionCmd)
}

// Execute 执行命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig 构建配置对象
func buildConfig(needCredentials bool) (*models.Config, error) {
	// 验证必需参数
	if needCredentials {
		if host == "" {
			return nil, fmt.Errorf("host是必需的")
		}
		if user == "" {
			return nil, fmt.Errorf("user是必需的")
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("端口必须在1到65535之间，得到%d", port)
		}
	}

	dir := sessionDir
	if dir == "" {
		defaultDir, err := session.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = defaultDir
	}

	tmp := tempDir
	if tmp == "" {
		tmp = os.TempDir()
	}

	return &models.Config{
		Host:       host,
		User:       user,
		Port:       port,
		SessionDir: dir,
		TempDir:    tmp,
	}, nil
}

// buildStore 构建会话存储
func buildStore() (*session.Store, error) {
	config, err := buildConfig(false)
	if err != nil {
		return nil, err
	}
	return session.NewStore(config.SessionDir), nil
}

// restoreConnector 从保存的会话恢复Connector
func restoreConnector() (*connector.Connector, error) {
	config, err := buildConfig(false)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(config.SessionDir)
	if !store.Exists() {
		return nil, fmt.Errorf("没有保存的会话，请先执行login")
	}

	conn, err := connector.RestoreSession(store, nil)
	if err != nil {
		return nil, fmt.Errorf("恢复会话失败: %w", err)
	}
	conn.SetTempDir(config.TempDir)
	return conn, nil
}

// printFileList 输出文件列表
func printFileList(files []models.RemoteFile) {
	if len(files) == 0 {
		fmt.Println("服务器上没有文件")
		return
	}

	fmt.Printf("%-40s %-34s %-21s %s\n", "NAME", "HASH", "MODIFIED", "STATE")
	for _, f := range files {
		fmt.Printf("%-40s %-34s %-21s %s\n",
			f.Name, f.Hash, f.ModTime.Format("2006-01-02 15:04:05"), f.State)
	}
	fmt.Printf("\n共%d个文件\n", len(files))
}
